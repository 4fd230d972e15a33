package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Actions recorded in the audit trail.
const (
	ActionRegister = "REGISTER"
	ActionLogin    = "LOGIN"
	ActionTransfer = "TRANSFER"
)

// Entry is a single audit record.
type Entry struct {
	ID         string
	UserID     string
	Action     string
	Entity     string
	EntityID   string
	Detail     string
	RecordedAt time.Time
}

// Recorder captures audit entries. Failures are the recorder's problem;
// callers treat Record as fire-and-forget.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// LogRecorder writes audit entries to the structured logger. Used when no
// database is configured.
type LogRecorder struct {
	logger *slog.Logger
}

// NewLogRecorder constructs a logger-backed recorder.
func NewLogRecorder(logger *slog.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

// Record writes the entry to the structured logger.
func (r *LogRecorder) Record(_ context.Context, e Entry) {
	if r == nil || r.logger == nil {
		return
	}
	r.logger.Info("audit",
		slog.String("user_id", e.UserID),
		slog.String("action", e.Action),
		slog.String("entity", e.Entity),
		slog.String("entity_id", e.EntityID),
		slog.String("detail", e.Detail),
	)
}

// PostgresRecorder persists audit entries in PostgreSQL.
type PostgresRecorder struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresRecorder constructs a Postgres-backed recorder.
func NewPostgresRecorder(db *pgxpool.Pool, logger *slog.Logger) *PostgresRecorder {
	return &PostgresRecorder{db: db, logger: logger}
}

// Record inserts the entry; insert failures are logged, never propagated, so
// an audit outage cannot fail the business operation it describes.
func (r *PostgresRecorder) Record(ctx context.Context, e Entry) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, `INSERT INTO audit_log (id, user_id, action, entity, entity_id, detail, recorded_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.UserID, e.Action, e.Entity, e.EntityID, e.Detail, e.RecordedAt)
	if err != nil && r.logger != nil {
		r.logger.Error("audit insert failed", slog.Any("error", err), slog.String("action", e.Action))
	}
}

// MemoryRecorder keeps entries in memory. Test helper.
type MemoryRecorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryRecorder constructs an in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Record appends the entry.
func (r *MemoryRecorder) Record(_ context.Context, e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}
	r.entries = append(r.entries, e)
}

// Entries returns a copy of everything recorded so far.
func (r *MemoryRecorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
