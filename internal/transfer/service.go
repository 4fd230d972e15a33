package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okapibank/okapi/internal/account"
	"github.com/okapibank/okapi/internal/audit"
	"github.com/okapibank/okapi/internal/beneficiary"
	"github.com/okapibank/okapi/internal/money"
)

var (
	// ErrNoAccount indicates the user has no account to draw from.
	ErrNoAccount = errors.New("no accounts found for the user")
	// ErrInsufficientBalance indicates the account cannot cover the transfer.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Service executes transfers to saved beneficiaries.
type Service struct {
	accounts      *account.Service
	beneficiaries *beneficiary.Service
	repo          Repository
	recorder      audit.Recorder
}

// NewService constructs a transfer service.
func NewService(accounts *account.Service, beneficiaries *beneficiary.Service, repo Repository, recorder audit.Recorder) *Service {
	return &Service{accounts: accounts, beneficiaries: beneficiaries, repo: repo, recorder: recorder}
}

// Result describes a completed transfer.
type Result struct {
	Transaction Transaction
	NewBalance  int64
}

// ToBeneficiary validates and executes a transfer from the user's primary
// account. The transaction is recorded PENDING before the debit and settles
// COMPLETED, or FAILED when the debit cannot be applied.
func (s *Service) ToBeneficiary(ctx context.Context, userID string, req Request) (Result, error) {
	from, err := s.accounts.Primary(ctx, userID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return Result{}, ErrNoAccount
		}
		return Result{}, err
	}

	var ben *beneficiary.Beneficiary
	if req.BeneficiaryID != "" {
		if b, err := s.beneficiaries.Get(ctx, userID, req.BeneficiaryID); err == nil {
			ben = &b
		}
	}

	validated, err := Validate(req, ben)
	if err != nil {
		return Result{}, err
	}

	if from.Balance <= 0 {
		return Result{}, fmt.Errorf("%w: account has zero or negative balance", ErrInsufficientBalance)
	}
	if validated.AmountCents > from.Balance {
		return Result{}, fmt.Errorf("%w: current balance %s, transfer amount %s",
			ErrInsufficientBalance, money.Format(from.Balance), money.Format(validated.AmountCents))
	}

	tx := Transaction{
		ID:            uuid.New().String(),
		Reference:     uuid.New().String(),
		UserID:        userID,
		AccountID:     from.ID,
		BeneficiaryID: validated.BeneficiaryID,
		Amount:        validated.AmountCents,
		Type:          TypeTransfer,
		Status:        StatusPending,
		Description:   validated.Description,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return Result{}, err
	}

	balance, err := s.accounts.Debit(ctx, from.ID, validated.AmountCents)
	if err != nil {
		_ = s.repo.UpdateStatus(ctx, tx.ID, StatusFailed)
		if errors.Is(err, account.ErrInsufficientFunds) {
			return Result{}, fmt.Errorf("%w: transfer amount %s", ErrInsufficientBalance, money.Format(validated.AmountCents))
		}
		return Result{}, err
	}

	if err := s.repo.UpdateStatus(ctx, tx.ID, StatusCompleted); err != nil {
		return Result{}, err
	}
	tx.Status = StatusCompleted

	if s.recorder != nil {
		s.recorder.Record(ctx, audit.Entry{
			UserID:   userID,
			Action:   audit.ActionTransfer,
			Entity:   "TRANSACTION",
			EntityID: tx.ID,
			Detail:   fmt.Sprintf("Transfer of %s to beneficiary %s", money.Format(tx.Amount), ben.Name),
		})
	}

	return Result{Transaction: tx, NewBalance: balance}, nil
}

// History returns a page of the user's transactions, newest first.
func (s *Service) History(ctx context.Context, userID string, page, size int) ([]Transaction, int, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}
	return s.repo.ListByUser(ctx, userID, page*size, size)
}
