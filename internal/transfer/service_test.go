package transfer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/okapibank/okapi/internal/account"
	"github.com/okapibank/okapi/internal/audit"
	"github.com/okapibank/okapi/internal/beneficiary"
)

type fixture struct {
	svc      *Service
	accounts *account.Service
	bens     *beneficiary.Service
	recorder *audit.MemoryRecorder
	userID   string
	benID    string
}

func newFixture(t *testing.T, balanceCents, limitCents int64) fixture {
	t.Helper()
	ctx := context.Background()

	accounts := account.NewService(account.NewMemoryRepository())
	bens := beneficiary.NewService(beneficiary.NewMemoryRepository())
	recorder := audit.NewMemoryRecorder()
	svc := NewService(accounts, bens, NewMemoryRepository(), recorder)

	userID := uuid.NewString()
	if _, err := accounts.Provision(ctx, userID, account.TypeSavings, balanceCents); err != nil {
		t.Fatalf("provision: %v", err)
	}
	b, err := bens.Add(ctx, userID, beneficiary.AddInput{
		Name:             "Sam Okello",
		BankName:         "First National",
		AccountNumber:    "00112233",
		MaxTransferLimit: limitCents,
	})
	if err != nil {
		t.Fatalf("add beneficiary: %v", err)
	}

	return fixture{svc: svc, accounts: accounts, bens: bens, recorder: recorder, userID: userID, benID: b.ID}
}

func TestTransferCompletes(t *testing.T) {
	f := newFixture(t, 100_000, 0)
	ctx := context.Background()

	res, err := f.svc.ToBeneficiary(ctx, f.userID, Request{BeneficiaryID: f.benID, Amount: "250.50", Description: "rent"})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if res.Transaction.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", res.Transaction.Status)
	}
	if res.NewBalance != 100_000-25_050 {
		t.Fatalf("expected balance %d, got %d", 100_000-25_050, res.NewBalance)
	}

	entries := f.recorder.Entries()
	if len(entries) != 1 || entries[0].Action != audit.ActionTransfer {
		t.Fatalf("expected one TRANSFER audit entry, got %+v", entries)
	}

	history, total, err := f.svc.History(ctx, f.userID, 0, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if total != 1 || len(history) != 1 || history[0].ID != res.Transaction.ID {
		t.Fatalf("unexpected history %+v total %d", history, total)
	}
}

func TestTransferUnknownBeneficiary(t *testing.T) {
	f := newFixture(t, 100_000, 0)

	_, err := f.svc.ToBeneficiary(context.Background(), f.userID, Request{BeneficiaryID: uuid.NewString(), Amount: "10"})
	if !errors.Is(err, ErrBeneficiaryNotFound) {
		t.Fatalf("expected ErrBeneficiaryNotFound, got %v", err)
	}
}

func TestTransferExceedsLimit(t *testing.T) {
	f := newFixture(t, 1_000_000, 100_000)

	_, err := f.svc.ToBeneficiary(context.Background(), f.userID, Request{BeneficiaryID: f.benID, Amount: "1500"})
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
}

func TestTransferInsufficientBalance(t *testing.T) {
	f := newFixture(t, 5_000, 0)
	ctx := context.Background()

	_, err := f.svc.ToBeneficiary(ctx, f.userID, Request{BeneficiaryID: f.benID, Amount: "51"})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// The rejected transfer must not have touched the balance.
	balance, err := f.accounts.Primary(ctx, f.userID)
	if err != nil {
		t.Fatalf("primary: %v", err)
	}
	if balance.Balance != 5_000 {
		t.Fatalf("balance changed to %d after rejected transfer", balance.Balance)
	}
}

func TestTransferNoAccount(t *testing.T) {
	f := newFixture(t, 100_000, 0)

	_, err := f.svc.ToBeneficiary(context.Background(), uuid.NewString(), Request{BeneficiaryID: f.benID, Amount: "10"})
	if !errors.Is(err, ErrNoAccount) {
		t.Fatalf("expected ErrNoAccount, got %v", err)
	}
}

func TestHistoryPagination(t *testing.T) {
	f := newFixture(t, 1_000_000, 0)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := f.svc.ToBeneficiary(ctx, f.userID, Request{BeneficiaryID: f.benID, Amount: "1"}); err != nil {
			t.Fatalf("transfer %d: %v", i, err)
		}
	}

	page, total, err := f.svc.History(ctx, f.userID, 1, 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(page) != 2 {
		t.Fatalf("expected page of 2, got %d", len(page))
	}
}
