package transfer

import (
	"errors"

	"github.com/okapibank/okapi/internal/beneficiary"
	"github.com/okapibank/okapi/internal/money"
)

var (
	// ErrBeneficiaryNotFound indicates the referenced beneficiary is absent
	// from the caller's beneficiary set.
	ErrBeneficiaryNotFound = errors.New("beneficiary not found")
	// ErrInvalidAmount indicates the amount is not a positive decimal with at
	// most two fractional digits.
	ErrInvalidAmount = errors.New("amount must be a positive amount with at most two decimal places")
	// ErrLimitExceeded indicates the amount exceeds the beneficiary's
	// configured transfer ceiling.
	ErrLimitExceeded = errors.New("transfer amount exceeds maximum limit for this beneficiary")
)

// Validated is a transfer request normalized to cents, ready for execution.
type Validated struct {
	BeneficiaryID string
	AmountCents   int64
	Description   string
}

// Validate checks a proposed transfer against the resolved beneficiary. Rules
// apply in order and short-circuit on first failure: the beneficiary must
// exist, the amount must be a positive finite decimal with at most two
// fractional digits, and when the beneficiary carries a nonzero
// MaxTransferLimit the amount must not exceed it. Pure; no I/O.
func Validate(req Request, ben *beneficiary.Beneficiary) (Validated, error) {
	if ben == nil {
		return Validated{}, ErrBeneficiaryNotFound
	}

	cents, err := money.Parse(req.Amount)
	if err != nil || cents <= 0 {
		return Validated{}, ErrInvalidAmount
	}

	if ben.MaxTransferLimit != 0 && cents > ben.MaxTransferLimit {
		return Validated{}, ErrLimitExceeded
	}

	return Validated{
		BeneficiaryID: ben.ID,
		AmountCents:   cents,
		Description:   req.Description,
	}, nil
}
