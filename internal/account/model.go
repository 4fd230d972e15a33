package account

import "time"

// Account types offered to customers.
const (
	TypeSavings = "SAVINGS"
	TypeCurrent = "CURRENT"
)

// Account is a customer deposit account. Balance is held in cents.
type Account struct {
	ID            string
	UserID        string
	AccountNumber string
	Type          string
	Balance       int64
	CreatedAt     time.Time
}
