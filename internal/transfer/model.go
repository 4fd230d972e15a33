package transfer

import "time"

// Transaction statuses.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// TypeTransfer is the only transaction type produced by this service.
const TypeTransfer = "TRANSFER"

// Transaction records a transfer drawn from a customer account. Amount is in
// cents.
type Transaction struct {
	ID            string
	Reference     string
	UserID        string
	AccountID     string
	BeneficiaryID string
	Amount        int64
	Type          string
	Status        string
	Description   string
	CreatedAt     time.Time
}

// Request is a proposed transfer as submitted by the client. Amount is the
// decimal string presented at the API boundary; validation normalizes it to
// cents. Requests are ephemeral and never persisted as-is.
type Request struct {
	BeneficiaryID string
	Amount        string
	Description   string
}
