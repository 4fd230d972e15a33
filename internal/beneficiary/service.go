package beneficiary

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service manages saved transfer recipients.
type Service struct {
	repo Repository
}

// NewService creates a beneficiary service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddInput captures the fields required to save a beneficiary.
// MaxTransferLimit is in cents; zero disables the per-recipient ceiling.
type AddInput struct {
	Name             string
	BankName         string
	AccountNumber    string
	IFSCCode         string
	MaxTransferLimit int64
	Relationship     string
}

// Add saves a new beneficiary for the owner. Beneficiaries are immutable once
// created.
func (s *Service) Add(ctx context.Context, ownerID string, in AddInput) (Beneficiary, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Beneficiary{}, errors.New("name is required")
	}
	if strings.TrimSpace(in.BankName) == "" {
		return Beneficiary{}, errors.New("bank name is required")
	}
	if strings.TrimSpace(in.AccountNumber) == "" {
		return Beneficiary{}, errors.New("account number is required")
	}
	if in.MaxTransferLimit < 0 {
		return Beneficiary{}, errors.New("max transfer limit must not be negative")
	}

	b := Beneficiary{
		ID:               uuid.New().String(),
		OwnerID:          ownerID,
		Name:             in.Name,
		BankName:         in.BankName,
		AccountNumber:    in.AccountNumber,
		IFSCCode:         in.IFSCCode,
		MaxTransferLimit: in.MaxTransferLimit,
		Relationship:     in.Relationship,
		Active:           true,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return Beneficiary{}, err
	}
	return b, nil
}

// List returns the owner's beneficiaries.
func (s *Service) List(ctx context.Context, ownerID string) ([]Beneficiary, error) {
	return s.repo.FindByOwner(ctx, ownerID)
}

// Get fetches one beneficiary scoped to its owner.
func (s *Service) Get(ctx context.Context, ownerID, id string) (Beneficiary, error) {
	return s.repo.FindByID(ctx, ownerID, id)
}
