package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidResetCode indicates the verification code is wrong or expired.
var ErrInvalidResetCode = errors.New("invalid or expired verification code")

const resetCodeTTL = 10 * time.Minute

// CodeSender delivers a password-reset verification code to the user.
type CodeSender interface {
	SendResetCode(ctx context.Context, email, code string) error
}

// LogCodeSender writes the code to the log instead of delivering it. Used
// in development, where no mail transport is configured.
type LogCodeSender struct {
	Logger *slog.Logger
}

// SendResetCode logs the code for the operator to relay.
func (s LogCodeSender) SendResetCode(_ context.Context, email, code string) error {
	s.Logger.Info("password reset code issued",
		slog.String("email", email), slog.String("code", code))
	return nil
}

type resetCode struct {
	code    string
	expires time.Time
}

// PasswordReset coordinates the forgot/reset password flow: a six-digit
// verification code is issued per email and honored once within its TTL.
type PasswordReset struct {
	repo   Repository
	sender CodeSender
	now    func() time.Time

	mu    sync.Mutex
	codes map[string]resetCode // keyed by email
}

// NewPasswordReset builds the reset coordinator.
func NewPasswordReset(repo Repository, sender CodeSender) *PasswordReset {
	return &PasswordReset{
		repo:   repo,
		sender: sender,
		now:    time.Now,
		codes:  make(map[string]resetCode),
	}
}

// Initiate issues a verification code for the account registered under
// email and hands it to the sender. A repeated call replaces the previous
// code.
func (p *PasswordReset) Initiate(ctx context.Context, email string) error {
	if _, err := p.repo.FindByEmail(ctx, email); err != nil {
		return err
	}

	code := fmt.Sprintf("%06d", rand.Intn(1_000_000))
	p.mu.Lock()
	p.codes[email] = resetCode{code: code, expires: p.now().Add(resetCodeTTL)}
	p.mu.Unlock()

	return p.sender.SendResetCode(ctx, email, code)
}

// Reset verifies the code and replaces the account's password. The code is
// consumed on success; a wrong code leaves it in place until it expires.
func (p *PasswordReset) Reset(ctx context.Context, email, code, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	p.mu.Lock()
	stored, ok := p.codes[email]
	if ok && p.now().After(stored.expires) {
		delete(p.codes, email)
		ok = false
	}
	p.mu.Unlock()
	if !ok || stored.code != code {
		return ErrInvalidResetCode
	}

	u, err := p.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := p.repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}

	p.mu.Lock()
	delete(p.codes, email)
	p.mu.Unlock()
	return nil
}
