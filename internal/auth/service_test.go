package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okapibank/okapi/internal/account"
	"github.com/okapibank/okapi/internal/audit"
	"github.com/okapibank/okapi/internal/user"
)

func newTestService() (*Service, *user.Service) {
	users := user.NewService(user.NewMemoryRepository())
	accounts := account.NewService(account.NewMemoryRepository())
	issuer := NewIssuer("test-secret", time.Hour)
	return NewService(users, accounts, issuer, audit.NewMemoryRecorder(), 50_000), users
}

func TestRegisterCustomerIssuesToken(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	grant, err := svc.RegisterCustomer(ctx, user.Registration{
		Username: "jdoe", Email: "jdoe@example.com", Password: "hunter22",
		FirstName: "Jane", LastName: "Doe", AccountType: account.TypeSavings,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if grant.Role != user.RoleCustomer || grant.Token == "" {
		t.Fatalf("unexpected grant %+v", grant)
	}

	claims, err := NewIssuer("test-secret", time.Hour).Verify(grant.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != grant.User.ID || claims.Role != user.RoleCustomer {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginRejectsWrongSurface(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.RegisterCustomer(ctx, user.Registration{
		Username: "jdoe", Email: "jdoe@example.com", Password: "hunter22",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	creds := user.Credentials{Username: "jdoe", Password: "hunter22"}
	if _, err := svc.Login(ctx, creds, user.RoleCustomer); err != nil {
		t.Fatalf("customer login: %v", err)
	}
	// The same principal must not pass the admin surface, and the failure is
	// indistinguishable from a bad password.
	if _, err := svc.Login(ctx, creds, user.RoleAdmin); !errors.Is(err, user.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)
	token, err := issuer.Sign("user-1", user.RoleCustomer)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	token, err := NewIssuer("other-secret", time.Hour).Sign("user-1", user.RoleCustomer)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewIssuer("test-secret", time.Hour).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
