// Package core provides money parsing and handling utilities.
//
// Amounts are carried as decimal.Decimal with two fractional digits and
// persisted as integer cents.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CentsPlaces is the number of fractional digits kept for currency values.
const CentsPlaces = 2

// ParseAmount converts a decimal string to a currency amount with half-up rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Zero is a
// valid amount; signs and exponents are rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34
//	ParseAmount("12,34")  -> 12.34
//	ParseAmount("12.345") -> 12.35
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(CentsPlaces), nil
}

// AmountToCents converts an amount to integer cents, rounding half-up.
func AmountToCents(d decimal.Decimal) int64 {
	return d.Shift(CentsPlaces).Round(0).IntPart()
}

// AmountFromCents converts integer cents back to an amount.
func AmountFromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -CentsPlaces)
}
