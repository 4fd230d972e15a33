package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates no account exists for the lookup.
	ErrNotFound = errors.New("account not found")
	// ErrInsufficientFunds occurs when a debit would overdraw the account.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Repository persists accounts.
type Repository interface {
	Create(ctx context.Context, a Account) error
	FindByUser(ctx context.Context, userID string) ([]Account, error)
	// Debit atomically subtracts amount cents from the account balance,
	// failing with ErrInsufficientFunds when the balance would go negative.
	Debit(ctx context.Context, accountID string, amount int64) (int64, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed account repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new account.
func (r *PostgresRepository) Create(ctx context.Context, a Account) error {
	accountID, err := uuid.Parse(a.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(a.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO accounts (id, user_id, account_number, account_type, balance_cents, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		accountID, userID, a.AccountNumber, a.Type, a.Balance, a.CreatedAt.UTC())
	return err
}

// FindByUser returns all accounts owned by the user, oldest first.
func (r *PostgresRepository) FindByUser(ctx context.Context, userID string) ([]Account, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := r.db.Query(ctx, `SELECT id, user_id, account_number, account_type, balance_cents, created_at
        FROM accounts WHERE user_id = $1 ORDER BY created_at`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var (
			id        uuid.UUID
			owner     uuid.UUID
			createdAt time.Time
			a         Account
		)
		if err := rows.Scan(&id, &owner, &a.AccountNumber, &a.Type, &a.Balance, &createdAt); err != nil {
			return nil, err
		}
		a.ID = id.String()
		a.UserID = owner.String()
		a.CreatedAt = createdAt.UTC()
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Debit subtracts amount from the balance inside a single guarded UPDATE so
// concurrent transfers cannot overdraw.
func (r *PostgresRepository) Debit(ctx context.Context, accountID string, amount int64) (int64, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return 0, ErrNotFound
	}
	var balance int64
	err = r.db.QueryRow(ctx, `UPDATE accounts SET balance_cents = balance_cents - $1
        WHERE id = $2 AND balance_cents >= $1
        RETURNING balance_cents`, amount, id).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		// Distinguish a missing account from an overdraw.
		var exists bool
		if lookupErr := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists); lookupErr != nil {
			return 0, lookupErr
		}
		if !exists {
			return 0, ErrNotFound
		}
		return 0, ErrInsufficientFunds
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}
