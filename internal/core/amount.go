// Package core holds the domain types and the parsing/classification logic
// that turn one raw export line into a classified procurement record.
//
// This file parses obligation amounts. Export formatting drifts between
// fiscal years ("$1,234.00", "-$45.10", bare digits), so the value is read
// as "all digits, sign detected separately". Sub-dollar precision is folded
// into the digit string as printed; that loss is an accepted simplification.
package core

import (
	"strconv"
	"strings"
)

// ParseObligation converts a raw obligation token into a signed integer
// value. A literal '-' anywhere in the token marks the value negative; every
// non-digit rune is stripped before parsing. Returns ErrInvalidAmount when
// no digits remain.
//
// Examples:
//
//	ParseObligation("$1,234") -> 1234
//	ParseObligation("-$45.10") -> -4510
func ParseObligation(token string) (int64, error) {
	negative := strings.ContainsRune(token, '-')

	var digits strings.Builder
	for _, r := range token {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, ErrInvalidAmount
	}

	v, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if negative {
		v = -v
	}
	return v, nil
}
