package account

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Service manages customer accounts.
type Service struct {
	repo Repository
}

// NewService creates an account service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Provision opens a new account for the user with the given opening balance.
// Called once during customer registration.
func (s *Service) Provision(ctx context.Context, userID, accountType string, openingBalance int64) (Account, error) {
	if accountType != TypeSavings && accountType != TypeCurrent {
		accountType = TypeSavings
	}
	a := Account{
		ID:            uuid.New().String(),
		UserID:        userID,
		AccountNumber: newAccountNumber(),
		Type:          accountType,
		Balance:       openingBalance,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}

// Balances returns the user's accounts keyed by account number.
func (s *Service) Balances(ctx context.Context, userID string) (map[string]int64, error) {
	accounts, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, ErrNotFound
	}
	balances := make(map[string]int64, len(accounts))
	for _, a := range accounts {
		balances[a.AccountNumber] = a.Balance
	}
	return balances, nil
}

// Primary returns the user's first account. Transfers draw from it.
func (s *Service) Primary(ctx context.Context, userID string) (Account, error) {
	accounts, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return Account{}, err
	}
	if len(accounts) == 0 {
		return Account{}, ErrNotFound
	}
	return accounts[0], nil
}

// Debit subtracts amount cents from the account.
func (s *Service) Debit(ctx context.Context, accountID string, amount int64) (int64, error) {
	return s.repo.Debit(ctx, accountID, amount)
}

func newAccountNumber() string {
	return fmt.Sprintf("OKP%012d", rand.Int63n(1_000_000_000_000))
}
