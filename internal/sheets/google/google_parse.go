package google

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"artha/internal/core"
)

// Column layout of the mirror sheet: A date, B amount, C category, D notes.
var headerRow = []any{"Date", "Amount", "Category", "Notes"}

const columns = "A:D"

// a1Range quotes sheet names that need it.
func a1Range(sheet, cells string) string {
	if strings.ContainsAny(sheet, " '!") {
		sheet = "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	}
	return sheet + "!" + cells
}

func expenseToRow(e core.Expense) []any {
	return []any{e.Date.String(), e.Amount.InexactFloat64(), e.Category, e.Notes}
}

func cellString(row []any, idx int) string {
	if idx >= len(row) || row[idx] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[idx]))
}

func parseAmountCell(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x).Round(core.CentsPlaces), x >= 0
	case string:
		d, err := core.ParseAmount(strings.TrimLeft(strings.TrimSpace(x), "$€£₹ "))
		return d, err == nil
	}
	return decimal.Zero, false
}

// rowsForDate returns the zero-based sheet row indexes whose date cell equals date.
func rowsForDate(values [][]any, date core.Date) []int64 {
	want := date.String()
	var out []int64
	for i, row := range values {
		if cellString(row, 0) == want {
			out = append(out, int64(i))
		}
	}
	return out
}

// parseRow converts one sheet row; header and malformed rows are rejected.
func parseRow(row []any) (core.Expense, bool) {
	date, err := core.ParseDate(cellString(row, 0))
	if err != nil || len(row) < 3 {
		return core.Expense{}, false
	}
	amount, ok := parseAmountCell(row[1])
	if !ok {
		return core.Expense{}, false
	}
	e := core.Expense{
		Date:     date,
		Amount:   amount,
		Category: cellString(row, 2),
		Notes:    cellString(row, 3),
	}
	return e, e.Validate() == nil
}
