package http

import (
	"strings"

	"github.com/shopspring/decimal"

	"artha/internal/core"
)

// sanitizeInput drops control characters other than tab and newlines, then trims.
func sanitizeInput(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// money renders an amount as a JSON number with cent precision.
func money(d decimal.Decimal) float64 {
	return d.Round(core.CentsPlaces).InexactFloat64()
}
