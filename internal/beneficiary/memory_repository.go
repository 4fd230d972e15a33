package beneficiary

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu            sync.RWMutex
	beneficiaries map[string]Beneficiary
}

// NewMemoryRepository builds an in-memory beneficiary store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{beneficiaries: make(map[string]Beneficiary)}
}

func (r *memoryRepository) Create(_ context.Context, b Beneficiary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beneficiaries[b.ID] = b
	return nil
}

func (r *memoryRepository) FindByOwner(_ context.Context, ownerID string) ([]Beneficiary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var owned []Beneficiary
	for _, b := range r.beneficiaries {
		if b.OwnerID == ownerID {
			owned = append(owned, b)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.Before(owned[j].CreatedAt) })
	return owned, nil
}

func (r *memoryRepository) FindByID(_ context.Context, ownerID, id string) (Beneficiary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.beneficiaries[id]
	if !ok || b.OwnerID != ownerID {
		return Beneficiary{}, ErrNotFound
	}
	return b, nil
}
