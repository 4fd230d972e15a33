package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Amounts are carried as int64 minor units (cents) everywhere inside the
// system; decimal strings appear only at the API boundary.

// ErrInvalidAmount indicates a decimal string that is not a finite positive
// amount with at most two fractional digits.
var ErrInvalidAmount = errors.New("invalid amount")

// Parse converts a decimal string such as "123.45" into cents. It rejects
// empty input, signs other than a leading minus (which fails as non-positive
// at validation time is the caller's concern — Parse itself accepts negatives
// so balances can round-trip), exponents, and more than two fractional digits.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.ContainsAny(s, "eExX+") {
		return 0, ErrInvalidAmount
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, ErrInvalidAmount
	}
	if len(frac) > 2 {
		return 0, ErrInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}
	for len(frac) < 2 {
		frac += "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	var f int64
	if frac != "00" {
		f, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
	}

	cents := w*100 + f
	if neg {
		cents = -cents
	}
	return cents, nil
}

// ParseFloat converts a float64 amount (as decoded from JSON) into cents,
// rejecting NaN, infinities and sub-cent precision.
func ParseFloat(v float64) (int64, error) {
	// Format with full precision and reuse the string path so 12.345 and
	// float artifacts like 0.1+0.2 are rejected rather than rounded.
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return Parse(s)
}

// Format renders cents as a two-decimal string, e.g. 123456 -> "1234.56".
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
