package customer

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	details map[string]Details // keyed by user ID
}

// NewMemoryRepository builds an in-memory details store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{details: make(map[string]Details)}
}

func (r *memoryRepository) Upsert(_ context.Context, d Details) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.details[d.UserID]; ok {
		d.CreatedAt = existing.CreatedAt
	}
	r.details[d.UserID] = d
	return nil
}

func (r *memoryRepository) FindByUser(_ context.Context, userID string) (Details, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.details[userID]
	if !ok {
		return Details{}, ErrNotFound
	}
	return d, nil
}
