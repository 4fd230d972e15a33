package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/okapibank/okapi/internal/account"
	"github.com/okapibank/okapi/internal/audit"
	"github.com/okapibank/okapi/internal/user"
)

// ErrWrongRole indicates the credentials are valid but the principal does not
// carry the role the login surface requires.
var ErrWrongRole = errors.New("account does not have access to this login")

// Service issues credentials for the two login surfaces and registers
// customers.
type Service struct {
	users          *user.Service
	accounts       *account.Service
	issuer         *Issuer
	recorder       audit.Recorder
	openingBalance int64
}

// NewService constructs an auth service. openingBalance funds the account
// provisioned during customer registration.
func NewService(users *user.Service, accounts *account.Service, issuer *Issuer, recorder audit.Recorder, openingBalance int64) *Service {
	return &Service{users: users, accounts: accounts, issuer: issuer, recorder: recorder, openingBalance: openingBalance}
}

// Grant is the credential material handed to a client on success.
type Grant struct {
	Token string
	Role  string
	User  user.User
}

// Login authenticates the credentials for the given login surface. A valid
// principal carrying a different role is rejected the same way as a bad
// password so the two surfaces do not leak account existence.
func (s *Service) Login(ctx context.Context, creds user.Credentials, requiredRole string) (Grant, error) {
	u, err := s.users.Authenticate(ctx, creds)
	if err != nil {
		return Grant{}, err
	}
	if u.Role != requiredRole {
		return Grant{}, user.ErrInvalidCredentials
	}

	token, err := s.issuer.Sign(u.ID, u.Role)
	if err != nil {
		return Grant{}, err
	}

	if s.recorder != nil {
		s.recorder.Record(ctx, audit.Entry{
			UserID: u.ID,
			Action: audit.ActionLogin,
			Entity: "USER",
			Detail: fmt.Sprintf("Login as %s", u.Role),
		})
	}
	return Grant{Token: token, Role: u.Role, User: u}, nil
}

// RegisterCustomer creates a customer, provisions their first account, and
// returns a ready-to-use credential so the client is logged in immediately.
func (s *Service) RegisterCustomer(ctx context.Context, reg user.Registration) (Grant, error) {
	u, err := s.users.Register(ctx, reg, user.RoleCustomer)
	if err != nil {
		return Grant{}, err
	}

	if _, err := s.accounts.Provision(ctx, u.ID, reg.AccountType, s.openingBalance); err != nil {
		return Grant{}, err
	}

	token, err := s.issuer.Sign(u.ID, u.Role)
	if err != nil {
		return Grant{}, err
	}

	if s.recorder != nil {
		s.recorder.Record(ctx, audit.Entry{
			UserID: u.ID,
			Action: audit.ActionRegister,
			Entity: "USER",
			Detail: fmt.Sprintf("Customer registered with %s account", reg.AccountType),
		})
	}
	return Grant{Token: token, Role: u.Role, User: u}, nil
}
