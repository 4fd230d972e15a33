package beneficiary

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestAddAndList(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	ownerID := uuid.NewString()

	b, err := svc.Add(ctx, ownerID, AddInput{
		Name:             "Sam Okello",
		BankName:         "First National",
		AccountNumber:    "00112233",
		IFSCCode:         "FN0001",
		MaxTransferLimit: 100_000,
		Relationship:     "FRIEND",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !b.Active || b.ID == "" {
		t.Fatalf("unexpected beneficiary %+v", b)
	}

	list, err := svc.List(ctx, ownerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != b.ID {
		t.Fatalf("expected one beneficiary %s, got %+v", b.ID, list)
	}

	// Other owners must not see it.
	other, err := svc.List(ctx, uuid.NewString())
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no beneficiaries for other owner, got %d", len(other))
	}
}

func TestGetScopedToOwner(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	ownerID := uuid.NewString()

	b, err := svc.Add(ctx, ownerID, AddInput{Name: "A", BankName: "B", AccountNumber: "C"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := svc.Get(ctx, ownerID, b.ID); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := svc.Get(ctx, uuid.NewString(), b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}
}

func TestAddValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	ownerID := uuid.NewString()

	if _, err := svc.Add(ctx, ownerID, AddInput{BankName: "B", AccountNumber: "C"}); err == nil {
		t.Fatal("expected error for missing name")
	}
	if _, err := svc.Add(ctx, ownerID, AddInput{Name: "A", AccountNumber: "C"}); err == nil {
		t.Fatal("expected error for missing bank name")
	}
	if _, err := svc.Add(ctx, ownerID, AddInput{Name: "A", BankName: "B"}); err == nil {
		t.Fatal("expected error for missing account number")
	}
	if _, err := svc.Add(ctx, ownerID, AddInput{Name: "A", BankName: "B", AccountNumber: "C", MaxTransferLimit: -1}); err == nil {
		t.Fatal("expected error for negative limit")
	}
}
