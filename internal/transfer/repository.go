package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrTransactionNotFound indicates the transaction does not exist.
var ErrTransactionNotFound = errors.New("transaction not found")

// Repository persists transactions.
type Repository interface {
	Create(ctx context.Context, tx Transaction) error
	FindByID(ctx context.Context, id string) (Transaction, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]Transaction, int, error)
	List(ctx context.Context, offset, limit int) ([]Transaction, int, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed transaction repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const txColumns = `id, reference, user_id, account_id, beneficiary_id, amount_cents, tx_type, status, description, created_at`

// Create inserts a new transaction.
func (r *PostgresRepository) Create(ctx context.Context, tx Transaction) error {
	id, err := uuid.Parse(tx.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO transactions (`+txColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, tx.Reference, tx.UserID, tx.AccountID, tx.BeneficiaryID,
		tx.Amount, tx.Type, tx.Status, tx.Description, tx.CreatedAt.UTC())
	return err
}

// FindByID fetches a single transaction.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Transaction, error) {
	txID, err := uuid.Parse(id)
	if err != nil {
		return Transaction{}, ErrTransactionNotFound
	}
	var (
		rowID     uuid.UUID
		createdAt time.Time
		tx        Transaction
	)
	err = r.db.QueryRow(ctx, `SELECT `+txColumns+` FROM transactions WHERE id = $1`, txID).
		Scan(&rowID, &tx.Reference, &tx.UserID, &tx.AccountID, &tx.BeneficiaryID,
			&tx.Amount, &tx.Type, &tx.Status, &tx.Description, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrTransactionNotFound
	}
	if err != nil {
		return Transaction{}, err
	}
	tx.ID = rowID.String()
	tx.CreatedAt = createdAt.UTC()
	return tx, nil
}

// UpdateStatus transitions a transaction to the given status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string) error {
	txID, err := uuid.Parse(id)
	if err != nil {
		return ErrTransactionNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE transactions SET status = $1 WHERE id = $2`, status, txID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// ListByUser returns a page of the user's transactions, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]Transaction, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+txColumns+` FROM transactions WHERE user_id = $1
        ORDER BY created_at DESC OFFSET $2 LIMIT $3`, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	txs, err := collect(rows)
	return txs, total, err
}

// List returns a page over all transactions, newest first.
func (r *PostgresRepository) List(ctx context.Context, offset, limit int) ([]Transaction, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+txColumns+` FROM transactions
        ORDER BY created_at DESC OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	txs, err := collect(rows)
	return txs, total, err
}

func collect(rows pgx.Rows) ([]Transaction, error) {
	var txs []Transaction
	for rows.Next() {
		var (
			id        uuid.UUID
			createdAt time.Time
			tx        Transaction
		)
		if err := rows.Scan(&id, &tx.Reference, &tx.UserID, &tx.AccountID, &tx.BeneficiaryID,
			&tx.Amount, &tx.Type, &tx.Status, &tx.Description, &createdAt); err != nil {
			return nil, err
		}
		tx.ID = id.String()
		tx.CreatedAt = createdAt.UTC()
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
