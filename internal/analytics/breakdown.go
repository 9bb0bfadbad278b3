// Package analytics turns grouped spending sums into breakdowns, savings
// advice and a health score. Every function here is pure: the record store
// is queried by the caller.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"artha/internal/core"
)

var hundred = decimal.NewFromInt(100)

// ComputeBreakdown derives each category's share of total spending.
// Shares keep the order of the input rows. Percentages are 0 when the
// overall total is 0. Empty input yields core.ErrEmptyData.
func ComputeBreakdown(rows []core.CategoryTotal) (core.CategoryBreakdown, error) {
	if len(rows) == 0 {
		return core.CategoryBreakdown{}, core.ErrEmptyData
	}

	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.Total)
	}

	shares := make([]core.CategoryShare, 0, len(rows))
	for _, r := range rows {
		pct := decimal.Zero
		if !sum.IsZero() {
			pct = r.Total.Mul(hundred).Div(sum)
		}
		shares = append(shares, core.CategoryShare{
			Category:   r.Category,
			Total:      r.Total,
			Percentage: pct,
		})
	}
	return core.CategoryBreakdown{Shares: shares}, nil
}

// ComputeMonthly buckets totals by month of year, January first.
// Rows for the same month (from different years) are merged.
func ComputeMonthly(rows []core.MonthTotalRaw) ([]core.MonthlyTotal, error) {
	if len(rows) == 0 {
		return nil, core.ErrEmptyData
	}

	byMonth := make(map[time.Month]decimal.Decimal, 12)
	for _, r := range rows {
		byMonth[r.Month] = byMonth[r.Month].Add(r.Total)
	}

	out := make([]core.MonthlyTotal, 0, len(byMonth))
	for m, total := range byMonth {
		out = append(out, core.MonthlyTotal{
			Month:      m,
			MonthLabel: m.String(),
			Total:      total,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}
