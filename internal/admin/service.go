package admin

import (
	"context"

	"github.com/okapibank/okapi/internal/money"
	"github.com/okapibank/okapi/internal/transfer"
	"github.com/okapibank/okapi/internal/user"
)

// Service exposes read-only administrative projections.
type Service struct {
	users        user.Repository
	transactions transfer.Repository
}

// NewService constructs the admin service.
func NewService(users user.Repository, transactions transfer.Repository) *Service {
	return &Service{users: users, transactions: transactions}
}

// Page carries pagination bookkeeping alongside one page of items.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

func newPage[T any](items []T, total, size int) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	return Page[T]{Items: items, TotalItems: total, TotalPages: pages}
}

// UserRecord is the listing projection of a customer.
type UserRecord struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt"`
}

// Users returns one page of customer users.
func (s *Service) Users(ctx context.Context, page, size int) (Page[UserRecord], error) {
	page, size = clamp(page, size)
	users, total, err := s.users.ListByRole(ctx, user.RoleCustomer, page*size, size)
	if err != nil {
		return Page[UserRecord]{}, err
	}
	records := make([]UserRecord, 0, len(users))
	for _, u := range users {
		records = append(records, UserRecord{
			UserID:      u.ID,
			Username:    u.Username,
			Email:       u.Email,
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			PhoneNumber: u.PhoneNumber,
			IsActive:    u.Active,
			CreatedAt:   u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return newPage(records, total, size), nil
}

// User returns the detail projection of a single user.
func (s *Service) User(ctx context.Context, id string) (UserRecord, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return UserRecord{}, err
	}
	return UserRecord{
		UserID:      u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		IsActive:    u.Active,
		CreatedAt:   u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

// TransactionRecord is the listing projection of a transaction.
type TransactionRecord struct {
	TransactionID string `json:"transactionId"`
	Reference     string `json:"transactionReference"`
	UserID        string `json:"userId"`
	BeneficiaryID string `json:"beneficiaryId"`
	Amount        string `json:"amount"`
	Type          string `json:"transactionType"`
	Status        string `json:"status"`
	Description   string `json:"description"`
	CreatedAt     string `json:"createdAt"`
}

// Transactions returns one page over all transactions.
func (s *Service) Transactions(ctx context.Context, page, size int) (Page[TransactionRecord], error) {
	page, size = clamp(page, size)
	txs, total, err := s.transactions.List(ctx, page*size, size)
	if err != nil {
		return Page[TransactionRecord]{}, err
	}
	records := make([]TransactionRecord, 0, len(txs))
	for _, tx := range txs {
		records = append(records, newTransactionRecord(tx))
	}
	return newPage(records, total, size), nil
}

// Transaction returns the detail projection of a single transaction.
func (s *Service) Transaction(ctx context.Context, id string) (TransactionRecord, error) {
	tx, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return TransactionRecord{}, err
	}
	return newTransactionRecord(tx), nil
}

func newTransactionRecord(tx transfer.Transaction) TransactionRecord {
	return TransactionRecord{
		TransactionID: tx.ID,
		Reference:     tx.Reference,
		UserID:        tx.UserID,
		BeneficiaryID: tx.BeneficiaryID,
		Amount:        money.Format(tx.Amount),
		Type:          tx.Type,
		Status:        tx.Status,
		Description:   tx.Description,
		CreatedAt:     tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func clamp(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return page, size
}
