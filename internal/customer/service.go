package customer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/okapibank/okapi/internal/user"
)

// Service manages customer KYC details.
type Service struct {
	repo  Repository
	users user.Repository
}

// NewService creates a customer details service.
func NewService(repo Repository, users user.Repository) *Service {
	return &Service{repo: repo, users: users}
}

// Input carries the fields a customer files or updates.
type Input struct {
	DateOfBirth  string
	AadharNumber string
	PANNumber    string
	Occupation   string
	AnnualIncome int64
}

// Save files the details for the user, replacing any earlier record. It
// reports whether a record already existed so the handler can word its
// confirmation accordingly.
func (s *Service) Save(ctx context.Context, userID string, in Input) (bool, error) {
	if strings.TrimSpace(in.DateOfBirth) != "" {
		if _, err := time.Parse("2006-01-02", in.DateOfBirth); err != nil {
			return false, errors.New("date of birth must be formatted as YYYY-MM-DD")
		}
	}
	if in.AnnualIncome < 0 {
		return false, errors.New("annual income cannot be negative")
	}

	now := time.Now().UTC()
	d := Details{
		UserID:       userID,
		DateOfBirth:  in.DateOfBirth,
		AadharNumber: in.AadharNumber,
		PANNumber:    in.PANNumber,
		Occupation:   in.Occupation,
		AnnualIncome: in.AnnualIncome,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	existed := true
	if _, err := s.repo.FindByUser(ctx, userID); errors.Is(err, ErrNotFound) {
		existed = false
	} else if err != nil {
		return false, err
	}
	return existed, s.repo.Upsert(ctx, d)
}

// Get returns the details along with the identity fields of the owning user.
func (s *Service) Get(ctx context.Context, userID string) (Details, user.User, error) {
	d, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return Details{}, user.User{}, err
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Details{}, user.User{}, err
	}
	return d, u, nil
}
