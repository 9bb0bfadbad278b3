package analytics

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"artha/internal/core"
)

func TestCountPeriods(t *testing.T) {
	cases := []struct {
		name       string
		start, end core.Date
		period     core.Period
		want       int
	}{
		{"same day week", core.NewDate(2024, 8, 1), core.NewDate(2024, 8, 1), core.PeriodWeek, 1},
		{"same day month", core.NewDate(2024, 8, 1), core.NewDate(2024, 8, 1), core.PeriodMonth, 1},
		{"august weeks", core.NewDate(2024, 8, 1), core.NewDate(2024, 8, 31), core.PeriodWeek, 5},
		{"exactly a week", core.NewDate(2024, 8, 1), core.NewDate(2024, 8, 8), core.PeriodWeek, 1},
		{"week plus a day", core.NewDate(2024, 8, 1), core.NewDate(2024, 8, 9), core.PeriodWeek, 2},
		{"month ignores day", core.NewDate(2024, 8, 31), core.NewDate(2024, 9, 1), core.PeriodMonth, 2},
		{"across year", core.NewDate(2023, 11, 15), core.NewDate(2024, 2, 1), core.PeriodMonth, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CountPeriods(tc.start, tc.end, tc.period); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func augustRequest(target string, period core.Period) core.SavingsRequest {
	return core.SavingsRequest{
		Target:    decimal.RequireFromString(target),
		StartDate: core.NewDate(2024, 8, 1),
		EndDate:   core.NewDate(2024, 8, 31),
		Period:    period,
	}
}

func TestPlanSavings(t *testing.T) {
	rows := []core.CategoryTotal{ct("Rent", 2000), ct("Food", 300), ct("Shopping", 450), ct("Entertainment", 120)}
	advice, err := PlanSavings(augustRequest("100", core.PeriodWeek), rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if advice.Category != "Shopping" {
		t.Errorf("expected Shopping, got %s", advice.Category)
	}
	if advice.NumPeriods != 5 || advice.Period != core.PeriodWeek {
		t.Errorf("expected 5 weeks, got %d %s", advice.NumPeriods, advice.Period)
	}
	if !advice.SavePerPeriod.Equal(decimal.NewFromInt(20)) {
		t.Errorf("expected 20 per week, got %s", advice.SavePerPeriod)
	}
}

func TestPlanSavingsRounding(t *testing.T) {
	rows := []core.CategoryTotal{ct("Food", 300)}
	req := augustRequest("100", core.PeriodMonth)
	req.EndDate = core.NewDate(2024, 10, 31) // 3 months

	advice, err := PlanSavings(req, rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if advice.SavePerPeriod.String() != "33.33" {
		t.Errorf("expected 33.33, got %s", advice.SavePerPeriod)
	}

	// 0.125 rounds half away from zero to 0.13
	req = augustRequest("1", core.PeriodMonth)
	req.EndDate = core.NewDate(2025, 3, 31) // 8 months
	advice, err = PlanSavings(req, rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if advice.SavePerPeriod.String() != "0.13" {
		t.Errorf("expected 0.13, got %s", advice.SavePerPeriod)
	}
}

func TestPlanSavingsTieBreaksOnFirstRow(t *testing.T) {
	rows := []core.CategoryTotal{ct("Rent", 900), ct("Travel", 400), ct("Food", 400)}
	advice, err := PlanSavings(augustRequest("50", core.PeriodWeek), rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if advice.Category != "Travel" {
		t.Fatalf("expected first of tied rows, got %s", advice.Category)
	}
}

func TestPlanSavingsMandatoryIsCaseInsensitive(t *testing.T) {
	rows := []core.CategoryTotal{ct("RENT", 5000), ct("Utilities", 800), ct("Coffee", 20)}
	advice, err := PlanSavings(augustRequest("10", core.PeriodWeek), rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if advice.Category != "Coffee" {
		t.Fatalf("expected Coffee, got %s", advice.Category)
	}
}

func TestPlanSavingsErrors(t *testing.T) {
	cases := []struct {
		name string
		req  core.SavingsRequest
		rows []core.CategoryTotal
		want error
	}{
		{"no rows", augustRequest("100", core.PeriodWeek), nil, core.ErrEmptyData},
		{"only mandatory", augustRequest("100", core.PeriodWeek), []core.CategoryTotal{ct("Rent", 100), ct("taxes", 50)}, core.ErrNoDiscretionary},
		{"discretionary all zero", augustRequest("100", core.PeriodWeek), []core.CategoryTotal{ct("Rent", 100), ct("Food", 0)}, core.ErrNoDiscretionary},
		{"bad period", augustRequest("100", "day"), []core.CategoryTotal{ct("Food", 10)}, core.ErrInvalidPeriod},
		{"zero target", augustRequest("0", core.PeriodWeek), []core.CategoryTotal{ct("Food", 10)}, core.ErrInvalidTarget},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := PlanSavings(tc.req, tc.rows); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
