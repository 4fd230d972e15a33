package transfer

import (
	"errors"
	"testing"

	"github.com/okapibank/okapi/internal/beneficiary"
)

func limitedBeneficiary(limitCents int64) *beneficiary.Beneficiary {
	return &beneficiary.Beneficiary{
		ID:               "ben-1",
		Name:             "Sam Okello",
		MaxTransferLimit: limitCents,
	}
}

func TestValidateWithinLimit(t *testing.T) {
	got, err := Validate(Request{BeneficiaryID: "ben-1", Amount: "500", Description: "rent"}, limitedBeneficiary(100_000))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.AmountCents != 50_000 {
		t.Fatalf("expected 50000 cents, got %d", got.AmountCents)
	}
	if got.BeneficiaryID != "ben-1" || got.Description != "rent" {
		t.Fatalf("unexpected normalized request %+v", got)
	}
}

func TestValidateLimitExceeded(t *testing.T) {
	_, err := Validate(Request{Amount: "1500"}, limitedBeneficiary(100_000))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
}

func TestValidateExactLimitAllowed(t *testing.T) {
	if _, err := Validate(Request{Amount: "1000"}, limitedBeneficiary(100_000)); err != nil {
		t.Fatalf("amount equal to limit should pass, got %v", err)
	}
}

func TestValidateZeroLimitMeansUnlimited(t *testing.T) {
	if _, err := Validate(Request{Amount: "999999"}, limitedBeneficiary(0)); err != nil {
		t.Fatalf("zero limit should not constrain, got %v", err)
	}
}

func TestValidateInvalidAmounts(t *testing.T) {
	for _, amount := range []string{"-5", "0", "", "abc", "1.234", "1e3"} {
		if _, err := Validate(Request{Amount: amount}, limitedBeneficiary(100_000)); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount %q: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestValidateMissingBeneficiary(t *testing.T) {
	_, err := Validate(Request{Amount: "100"}, nil)
	if !errors.Is(err, ErrBeneficiaryNotFound) {
		t.Fatalf("expected ErrBeneficiaryNotFound, got %v", err)
	}
}

func TestValidateOrderNotFoundBeforeAmount(t *testing.T) {
	// A nil beneficiary wins even when the amount is also bad.
	_, err := Validate(Request{Amount: "-1"}, nil)
	if !errors.Is(err, ErrBeneficiaryNotFound) {
		t.Fatalf("expected ErrBeneficiaryNotFound first, got %v", err)
	}
}
