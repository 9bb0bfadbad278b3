package analytics

import (
	"strings"

	"github.com/shopspring/decimal"

	"artha/internal/core"
)

// plannerMandatory are categories the planner never suggests cutting.
var plannerMandatory = map[string]struct{}{
	"rent":      {},
	"mortgage":  {},
	"utilities": {},
	"insurance": {},
	"taxes":     {},
}

// IsPlannerMandatory reports whether the savings planner treats category as fixed.
func IsPlannerMandatory(category string) bool {
	_, ok := plannerMandatory[strings.ToLower(category)]
	return ok
}

// PlanSavings picks the largest discretionary category in rows and spreads
// req.Target evenly over the periods covered by the request range.
//
// Ties on the largest total go to the row that appears first. The per-period
// amount is rounded to cents, half away from zero.
func PlanSavings(req core.SavingsRequest, rows []core.CategoryTotal) (core.SavingsAdvice, error) {
	if err := req.Validate(); err != nil {
		return core.SavingsAdvice{}, err
	}
	if len(rows) == 0 {
		return core.SavingsAdvice{}, core.ErrEmptyData
	}

	var (
		pick  core.CategoryTotal
		found bool
	)
	for _, r := range rows {
		if IsPlannerMandatory(r.Category) || !r.Total.IsPositive() {
			continue
		}
		if !found || r.Total.GreaterThan(pick.Total) {
			pick, found = r, true
		}
	}
	if !found {
		return core.SavingsAdvice{}, core.ErrNoDiscretionary
	}

	period, _ := core.ParsePeriod(string(req.Period))
	periods := CountPeriods(req.StartDate, req.EndDate, period)

	return core.SavingsAdvice{
		Category:      pick.Category,
		SavePerPeriod: req.Target.DivRound(decimal.NewFromInt(int64(periods)), core.CentsPlaces),
		Period:        period,
		NumPeriods:    periods,
	}, nil
}

// CountPeriods returns how many periods the inclusive range [start, end] spans.
// Weeks are ceil(days/7) with days floored at 1. Months count every calendar
// month touched, regardless of day of month. The result is never below 1.
func CountPeriods(start, end core.Date, period core.Period) int {
	var n int
	switch period {
	case core.PeriodMonth:
		n = (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
	default:
		days := max(1, start.DaysUntil(end))
		n = (days + 6) / 7
	}
	return max(1, n)
}
