package validate

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ProductID parses a catalog id: a positive integer.
func ProductID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// Qty parses a requested quantity in [1, max]. Zero, negative or oversized
// values are rejected rather than clamped so the caller hears about it.
func Qty(s string, max int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	if max > 0 && n > max {
		return 0, false
	}
	return n, true
}

// BuyerToken accepts only the canonical UUID form we issue.
func BuyerToken(s string) (string, bool) {
	if len(s) != 36 {
		return "", false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return u.String(), true
}
