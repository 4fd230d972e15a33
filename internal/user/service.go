package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates the username/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInactive indicates the account has been deactivated.
	ErrInactive = errors.New("account is inactive")
)

// Service manages the user lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new user with the given role and stores a hashed password.
func (s *Service) Register(ctx context.Context, reg Registration, role string) (User, error) {
	if strings.TrimSpace(reg.Username) == "" {
		return User{}, errors.New("username is required")
	}
	if strings.TrimSpace(reg.Email) == "" {
		return User{}, errors.New("email is required")
	}
	if len(reg.Password) < 6 {
		return User{}, errors.New("password must be at least 6 characters")
	}

	if taken, err := s.repo.ExistsByUsername(ctx, reg.Username); err != nil {
		return User{}, err
	} else if taken {
		return User{}, ErrDuplicate
	}
	if taken, err := s.repo.ExistsByEmail(ctx, reg.Email); err != nil {
		return User{}, err
	} else if taken {
		return User{}, ErrDuplicate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	u := User{
		ID:           uuid.New().String(),
		Username:     reg.Username,
		Email:        reg.Email,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		PhoneNumber:  reg.PhoneNumber,
		Address:      reg.Address,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Authenticate verifies credentials and returns the matching active user.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	u, err := s.repo.FindByUsername(ctx, creds.Username)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(creds.Password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	if !u.Active {
		return User{}, ErrInactive
	}
	return u, nil
}

// Get fetches a user by id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}
