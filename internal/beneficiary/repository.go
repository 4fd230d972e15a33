package beneficiary

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the beneficiary does not exist or is not owned by the caller.
var ErrNotFound = errors.New("beneficiary not found")

// Repository persists beneficiaries.
type Repository interface {
	Create(ctx context.Context, b Beneficiary) error
	FindByOwner(ctx context.Context, ownerID string) ([]Beneficiary, error)
	FindByID(ctx context.Context, ownerID, id string) (Beneficiary, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed beneficiary repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const columns = `id, owner_id, name, bank_name, account_number, ifsc_code, max_transfer_limit_cents, relationship, is_active, created_at`

// Create inserts a new beneficiary.
func (r *PostgresRepository) Create(ctx context.Context, b Beneficiary) error {
	id, err := uuid.Parse(b.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(b.OwnerID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO beneficiaries (`+columns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, ownerID, b.Name, b.BankName, b.AccountNumber, b.IFSCCode,
		b.MaxTransferLimit, b.Relationship, b.Active, b.CreatedAt.UTC())
	return err
}

// FindByOwner returns the owner's beneficiaries, oldest first.
func (r *PostgresRepository) FindByOwner(ctx context.Context, ownerID string) ([]Beneficiary, error) {
	oid, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := r.db.Query(ctx, `SELECT `+columns+` FROM beneficiaries WHERE owner_id = $1 ORDER BY created_at`, oid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Beneficiary
	for rows.Next() {
		b, err := scan(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// FindByID fetches a beneficiary scoped to its owner.
func (r *PostgresRepository) FindByID(ctx context.Context, ownerID, id string) (Beneficiary, error) {
	oid, err := uuid.Parse(ownerID)
	if err != nil {
		return Beneficiary{}, ErrNotFound
	}
	bid, err := uuid.Parse(id)
	if err != nil {
		return Beneficiary{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+columns+` FROM beneficiaries WHERE owner_id = $1 AND id = $2`, oid, bid)
	b, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Beneficiary{}, ErrNotFound
	}
	return b, err
}

func scan(row pgx.Row) (Beneficiary, error) {
	var (
		id        uuid.UUID
		ownerID   uuid.UUID
		createdAt time.Time
		b         Beneficiary
	)
	err := row.Scan(&id, &ownerID, &b.Name, &b.BankName, &b.AccountNumber,
		&b.IFSCCode, &b.MaxTransferLimit, &b.Relationship, &b.Active, &createdAt)
	if err != nil {
		return Beneficiary{}, err
	}
	b.ID = id.String()
	b.OwnerID = ownerID.String()
	b.CreatedAt = createdAt.UTC()
	return b, nil
}
