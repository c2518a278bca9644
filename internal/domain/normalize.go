package domain

import (
	"math"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims surrounding whitespace and lowercases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeAmount rounds to two decimal places. Non-finite values pass
// through untouched so callers can reject them.
func NormalizeAmount(amount float64) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return amount
	}
	return math.Round(amount*100) / 100
}

// ValidEmail checks for a single @ with a dot in the domain part and no
// embedded whitespace. It is a format check, not deliverability.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsPositiveAmount reports whether v is a finite number >= 0.
func IsPositiveAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
