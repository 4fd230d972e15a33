package customer

import "time"

// Details holds the KYC profile a customer files after registration. One
// record per user, updated in place.
type Details struct {
	UserID       string
	DateOfBirth  string
	AadharNumber string
	PANNumber    string
	Occupation   string
	AnnualIncome int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
