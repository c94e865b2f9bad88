// Package core holds the expense domain types and parsing helpers.
//
// This file contains monetary amount parsing. Amounts are decimal values
// rounded to two places; arithmetic on them happens inside the SQL engine,
// so float64 is only a carrier type at the boundary.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a non-negative two-place amount
// with half-up rounding. Both dot and comma separators are accepted.
//
// An empty string parses to 0: an expense with a missing amount is recorded
// as zero, never dropped. Garbage and negative values are rejected; callers
// ingesting model output map those to 0 themselves.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,345") -> 12.35, nil (rounds up)
//	ParseAmount("")       -> 0, nil
//	ParseAmount("-5")     -> 0, ErrNegativeAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.IsNegative() {
		return 0, ErrNegativeAmount
	}
	f, _ := d.Round(2).Float64()
	return f, nil
}

// AmountOrZero parses a model-supplied amount, treating anything unusable as
// zero so the record is still kept.
func AmountOrZero(s string) float64 {
	v, err := ParseAmount(s)
	if err != nil {
		return 0
	}
	return v
}
