package customer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the user has not filed customer details yet.
var ErrNotFound = errors.New("customer details not found")

// Repository persists customer details.
type Repository interface {
	Upsert(ctx context.Context, d Details) error
	FindByUser(ctx context.Context, userID string) (Details, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed customer details repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert inserts the record or updates it in place when one exists.
func (r *PostgresRepository) Upsert(ctx context.Context, d Details) error {
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO customer_details
        (user_id, date_of_birth, aadhar_number, pan_number, occupation, annual_income, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (user_id) DO UPDATE SET
            date_of_birth = EXCLUDED.date_of_birth,
            aadhar_number = EXCLUDED.aadhar_number,
            pan_number = EXCLUDED.pan_number,
            occupation = EXCLUDED.occupation,
            annual_income = EXCLUDED.annual_income,
            updated_at = EXCLUDED.updated_at`,
		userID, d.DateOfBirth, d.AadharNumber, d.PANNumber, d.Occupation,
		d.AnnualIncome, d.CreatedAt.UTC(), d.UpdatedAt.UTC())
	return err
}

// FindByUser fetches the details filed by the given user.
func (r *PostgresRepository) FindByUser(ctx context.Context, userID string) (Details, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return Details{}, ErrNotFound
	}
	var (
		d                    Details
		createdAt, updatedAt time.Time
	)
	err = r.db.QueryRow(ctx, `SELECT date_of_birth, aadhar_number, pan_number,
        occupation, annual_income, created_at, updated_at
        FROM customer_details WHERE user_id = $1`, uid).
		Scan(&d.DateOfBirth, &d.AadharNumber, &d.PANNumber, &d.Occupation,
			&d.AnnualIncome, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Details{}, ErrNotFound
	}
	if err != nil {
		return Details{}, err
	}
	d.UserID = userID
	d.CreatedAt = createdAt.UTC()
	d.UpdatedAt = updatedAt.UTC()
	return d, nil
}
