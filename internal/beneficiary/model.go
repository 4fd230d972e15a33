package beneficiary

import "time"

// Beneficiary is a saved transfer recipient owned by exactly one customer.
// Immutable once created; there is no edit or delete operation.
// MaxTransferLimit is a per-recipient ceiling in cents; zero means no limit.
type Beneficiary struct {
	ID               string
	OwnerID          string
	Name             string
	BankName         string
	AccountNumber    string
	IFSCCode         string
	MaxTransferLimit int64
	Relationship     string
	Active           bool
	CreatedAt        time.Time
}
