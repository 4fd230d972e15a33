package admin

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/okapibank/okapi/internal/transfer"
	"github.com/okapibank/okapi/internal/user"
)

func TestUsersPagination(t *testing.T) {
	users := user.NewMemoryRepository()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 7; i++ {
		err := users.Create(ctx, user.User{
			ID:        uuid.NewString(),
			Username:  fmt.Sprintf("customer%d", i),
			Email:     fmt.Sprintf("c%d@example.com", i),
			Role:      user.RoleCustomer,
			Active:    true,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("create customer %d: %v", i, err)
		}
	}
	// Admins must never appear in the customer listing.
	if err := users.Create(ctx, user.User{
		ID: uuid.NewString(), Username: "root", Email: "root@example.com",
		Role: user.RoleAdmin, Active: true, CreatedAt: base,
	}); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	svc := NewService(users, transfer.NewMemoryRepository())

	page, err := svc.Users(ctx, 0, 3)
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if page.TotalItems != 7 || page.TotalPages != 3 {
		t.Fatalf("expected 7 items over 3 pages, got %d/%d", page.TotalItems, page.TotalPages)
	}
	if len(page.Items) != 3 {
		t.Fatalf("expected page of 3, got %d", len(page.Items))
	}
	// Newest first.
	if page.Items[0].Username != "customer6" {
		t.Fatalf("expected customer6 first, got %s", page.Items[0].Username)
	}

	last, err := svc.Users(ctx, 2, 3)
	if err != nil {
		t.Fatalf("last page: %v", err)
	}
	if len(last.Items) != 1 {
		t.Fatalf("expected 1 item on last page, got %d", len(last.Items))
	}

	beyond, err := svc.Users(ctx, 9, 3)
	if err != nil {
		t.Fatalf("beyond: %v", err)
	}
	if len(beyond.Items) != 0 || beyond.TotalItems != 7 {
		t.Fatalf("expected empty page with bookkeeping intact, got %+v", beyond)
	}
}

func TestTransactionsProjection(t *testing.T) {
	txRepo := transfer.NewMemoryRepository()
	ctx := context.Background()

	tx := transfer.Transaction{
		ID:            uuid.NewString(),
		Reference:     uuid.NewString(),
		UserID:        uuid.NewString(),
		BeneficiaryID: uuid.NewString(),
		Amount:        123_456,
		Type:          transfer.TypeTransfer,
		Status:        transfer.StatusCompleted,
		Description:   "rent",
		CreatedAt:     time.Now().UTC(),
	}
	if err := txRepo.Create(ctx, tx); err != nil {
		t.Fatalf("create tx: %v", err)
	}

	svc := NewService(user.NewMemoryRepository(), txRepo)
	page, err := svc.Transactions(ctx, 0, 10)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if page.TotalItems != 1 || len(page.Items) != 1 {
		t.Fatalf("expected one transaction, got %+v", page)
	}
	got := page.Items[0]
	if got.Amount != "1234.56" {
		t.Fatalf("expected decimal amount 1234.56, got %s", got.Amount)
	}
	if got.Status != transfer.StatusCompleted || got.TransactionID != tx.ID {
		t.Fatalf("unexpected projection %+v", got)
	}
}

func TestUserDetail(t *testing.T) {
	users := user.NewMemoryRepository()
	ctx := context.Background()

	u := user.User{
		ID: uuid.NewString(), Username: "jdoe", Email: "jdoe@example.com",
		FirstName: "Jane", LastName: "Doe",
		Role: user.RoleCustomer, Active: true, CreatedAt: time.Now().UTC(),
	}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}

	svc := NewService(users, transfer.NewMemoryRepository())

	record, err := svc.User(ctx, u.ID)
	if err != nil {
		t.Fatalf("user detail: %v", err)
	}
	if record.Username != "jdoe" || record.FirstName != "Jane" || !record.IsActive {
		t.Fatalf("unexpected record: %+v", record)
	}

	if _, err := svc.User(ctx, uuid.NewString()); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestTransactionDetail(t *testing.T) {
	txRepo := transfer.NewMemoryRepository()
	ctx := context.Background()

	tx := transfer.Transaction{
		ID:        uuid.NewString(),
		Reference: uuid.NewString(),
		UserID:    uuid.NewString(),
		Amount:    55_00,
		Type:      transfer.TypeTransfer,
		Status:    transfer.StatusCompleted,
		CreatedAt: time.Now().UTC(),
	}
	if err := txRepo.Create(ctx, tx); err != nil {
		t.Fatalf("create tx: %v", err)
	}

	svc := NewService(user.NewMemoryRepository(), txRepo)

	record, err := svc.Transaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("transaction detail: %v", err)
	}
	if record.TransactionID != tx.ID || record.Amount != "55.00" {
		t.Fatalf("unexpected record: %+v", record)
	}

	if _, err := svc.Transaction(ctx, uuid.NewString()); !errors.Is(err, transfer.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}
