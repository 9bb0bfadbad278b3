package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"artha/internal/core"
)

func ct(category string, total int64) core.CategoryTotal {
	return core.CategoryTotal{Category: category, Total: decimal.NewFromInt(total)}
}

func TestComputeBreakdown(t *testing.T) {
	b, err := ComputeBreakdown([]core.CategoryTotal{ct("Rent", 1000), ct("Food", 600), ct("Shopping", 400)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]int64{"Rent": 50, "Food": 30, "Shopping": 20}
	for cat, pct := range want {
		s, ok := b.Lookup(cat)
		if !ok {
			t.Fatalf("missing category %s", cat)
		}
		if !s.Percentage.Equal(decimal.NewFromInt(pct)) {
			t.Errorf("%s: expected %d%%, got %s", cat, pct, s.Percentage)
		}
	}
	if b.Shares[0].Category != "Rent" || b.Shares[2].Category != "Shopping" {
		t.Fatalf("expected input order to be preserved, got %+v", b.Shares)
	}
}

func TestComputeBreakdownPercentagesSumTo100(t *testing.T) {
	cases := [][]core.CategoryTotal{
		{ct("A", 1), ct("B", 1), ct("C", 1)},
		{ct("A", 7), ct("B", 13), ct("C", 29), ct("D", 0)},
		{{Category: "A", Total: decimal.RequireFromString("0.01")}, ct("B", 999999)},
	}
	for i, rows := range cases {
		b, err := ComputeBreakdown(rows)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		sum := decimal.Zero
		for _, s := range b.Shares {
			sum = sum.Add(s.Percentage)
		}
		tolerance := decimal.RequireFromString("0.01").Mul(decimal.NewFromInt(int64(len(rows))))
		if sum.Sub(hundred).Abs().GreaterThan(tolerance) {
			t.Errorf("case %d: percentages sum to %s", i, sum)
		}
	}
}

func TestComputeBreakdownZeroTotal(t *testing.T) {
	b, err := ComputeBreakdown([]core.CategoryTotal{ct("Food", 0), ct("Rent", 0)})
	if err != nil {
		t.Fatalf("zero spending is data, not an error: %v", err)
	}
	for _, s := range b.Shares {
		if !s.Percentage.IsZero() {
			t.Fatalf("expected 0%% for %s, got %s", s.Category, s.Percentage)
		}
	}
}

func TestComputeBreakdownEmpty(t *testing.T) {
	if _, err := ComputeBreakdown(nil); !errors.Is(err, core.ErrEmptyData) {
		t.Fatalf("expected ErrEmptyData, got %v", err)
	}
}

func TestComputeMonthly(t *testing.T) {
	rows := []core.MonthTotalRaw{
		{Month: time.December, Total: decimal.NewFromInt(10)},
		{Month: time.March, Total: decimal.NewFromInt(5)},
		{Month: time.August, Total: decimal.NewFromInt(7)},
		{Month: time.March, Total: decimal.NewFromInt(3)}, // another year
		{Month: time.January, Total: decimal.NewFromInt(1)},
	}
	got, err := ComputeMonthly(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantLabels := []string{"January", "March", "August", "December"}
	if len(got) != len(wantLabels) {
		t.Fatalf("expected %d buckets, got %d", len(wantLabels), len(got))
	}
	for i, label := range wantLabels {
		if got[i].MonthLabel != label {
			t.Errorf("position %d: expected %s, got %s", i, label, got[i].MonthLabel)
		}
	}
	if !got[1].Total.Equal(decimal.NewFromInt(8)) {
		t.Errorf("expected March merged to 8, got %s", got[1].Total)
	}
}

func TestComputeMonthlyEmpty(t *testing.T) {
	if _, err := ComputeMonthly(nil); !errors.Is(err, core.ErrEmptyData) {
		t.Fatalf("expected ErrEmptyData, got %v", err)
	}
}
