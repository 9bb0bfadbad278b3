package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"artha/internal/core"
)

func parseRange(start, end string) (core.Date, core.Date, error) {
	s, err := core.ParseDate(start)
	if err != nil {
		return core.Date{}, core.Date{}, fmt.Errorf("--start: %w", err)
	}
	e, err := core.ParseDate(end)
	if err != nil {
		return core.Date{}, core.Date{}, fmt.Errorf("--end: %w", err)
	}
	return s, e, core.ValidateRange(s, e)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(core.CentsPlaces)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
