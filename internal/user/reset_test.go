package user

import (
	"context"
	"errors"
	"testing"
	"time"
)

type captureSender struct {
	email string
	code  string
}

func (s *captureSender) SendResetCode(_ context.Context, email, code string) error {
	s.email = email
	s.code = code
	return nil
}

func resetFixture(t *testing.T) (*PasswordReset, *Service, *captureSender) {
	t.Helper()
	repo := NewMemoryRepository()
	svc := NewService(repo)
	if _, err := svc.Register(context.Background(), Registration{
		Username: "amina", Email: "amina@example.com", Password: "oldpass1",
	}, RoleCustomer); err != nil {
		t.Fatalf("register: %v", err)
	}
	sender := &captureSender{}
	return NewPasswordReset(repo, sender), svc, sender
}

func TestPasswordResetFlow(t *testing.T) {
	reset, svc, sender := resetFixture(t)
	ctx := context.Background()

	if err := reset.Initiate(ctx, "amina@example.com"); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if sender.email != "amina@example.com" || len(sender.code) != 6 {
		t.Fatalf("unexpected delivery: %+v", sender)
	}

	if err := reset.Reset(ctx, "amina@example.com", sender.code, "newpass1"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if _, err := svc.Authenticate(ctx, Credentials{Username: "amina", Password: "oldpass1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password should no longer work, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, Credentials{Username: "amina", Password: "newpass1"}); err != nil {
		t.Fatalf("new password should work, got %v", err)
	}

	// The code is single-use.
	if err := reset.Reset(ctx, "amina@example.com", sender.code, "another1"); !errors.Is(err, ErrInvalidResetCode) {
		t.Fatalf("expected ErrInvalidResetCode on reuse, got %v", err)
	}
}

func TestPasswordResetRejectsWrongCode(t *testing.T) {
	reset, svc, _ := resetFixture(t)
	ctx := context.Background()

	if err := reset.Initiate(ctx, "amina@example.com"); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if err := reset.Reset(ctx, "amina@example.com", "000000x", "newpass1"); !errors.Is(err, ErrInvalidResetCode) {
		t.Fatalf("expected ErrInvalidResetCode, got %v", err)
	}

	if _, err := svc.Authenticate(ctx, Credentials{Username: "amina", Password: "oldpass1"}); err != nil {
		t.Fatalf("password must be unchanged after rejected reset, got %v", err)
	}
}

func TestPasswordResetCodeExpires(t *testing.T) {
	reset, _, sender := resetFixture(t)
	ctx := context.Background()

	if err := reset.Initiate(ctx, "amina@example.com"); err != nil {
		t.Fatalf("initiate: %v", err)
	}

	start := time.Now()
	reset.now = func() time.Time { return start.Add(resetCodeTTL + time.Second) }

	if err := reset.Reset(ctx, "amina@example.com", sender.code, "newpass1"); !errors.Is(err, ErrInvalidResetCode) {
		t.Fatalf("expected expired code to be rejected, got %v", err)
	}
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	reset, _, _ := resetFixture(t)
	if err := reset.Initiate(context.Background(), "ghost@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
