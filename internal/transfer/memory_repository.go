package transfer

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu           sync.RWMutex
	transactions map[string]Transaction
	order        []string // insertion order, newest appended last
}

// NewMemoryRepository builds an in-memory transaction store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{transactions: make(map[string]Transaction)}
}

func (r *memoryRepository) Create(_ context.Context, tx Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions[tx.ID] = tx
	r.order = append(r.order, tx.ID)
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.transactions[id]
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}
	return tx, nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.transactions[id]
	if !ok {
		return ErrTransactionNotFound
	}
	tx.Status = status
	r.transactions[id] = tx
	return nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID string, offset, limit int) ([]Transaction, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return page(r.snapshot(func(tx Transaction) bool { return tx.UserID == userID }), offset, limit)
}

func (r *memoryRepository) List(_ context.Context, offset, limit int) ([]Transaction, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return page(r.snapshot(func(Transaction) bool { return true }), offset, limit)
}

// snapshot returns matching transactions newest first. Caller holds the lock.
func (r *memoryRepository) snapshot(match func(Transaction) bool) []Transaction {
	var txs []Transaction
	for _, id := range r.order {
		if tx := r.transactions[id]; match(tx) {
			txs = append(txs, tx)
		}
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].CreatedAt.After(txs[j].CreatedAt) })
	return txs
}

func page(txs []Transaction, offset, limit int) ([]Transaction, int, error) {
	total := len(txs)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return txs[offset:end], total, nil
}
