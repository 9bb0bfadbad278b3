package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"artha/internal/core"
	"artha/internal/store"
)

var _ store.Store = (*Store)(nil)
var _ store.DayReplacer = (*Store)(nil)

func exp(date core.Date, amount int64, category string) core.Expense {
	return core.Expense{Date: date, Amount: decimal.NewFromInt(amount), Category: category}
}

func TestMemoryStoreInsertAndRows(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	d := core.NewDate(2024, 8, 1)
	if err := s.Insert(ctx, exp(d, 10, "Food")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Insert(ctx, exp(core.NewDate(2024, 8, 2), 5, "Food")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Insert(ctx, core.Expense{Date: d, Amount: decimal.NewFromInt(-1), Category: "x"}); err == nil {
		t.Fatalf("expected validation error")
	}
	rows, err := s.RowsForDate(ctx, d)
	if err != nil || len(rows) != 1 {
		t.Fatalf("unexpected rows: %v err=%v", rows, err)
	}
}

func TestMemoryStoreReplaceDay(t *testing.T) {
	ctx := context.Background()
	d := core.NewDate(2024, 8, 1)
	other := core.NewDate(2024, 8, 2)
	s := New([]core.Expense{exp(d, 1, "Food"), exp(other, 2, "Rent"), exp(d, 3, "Fun")})

	if err := s.ReplaceDay(ctx, d, []core.Expense{exp(d, 9, "Travel")}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	rows, _ := s.RowsForDate(ctx, d)
	if len(rows) != 1 || rows[0].Category != "Travel" {
		t.Fatalf("unexpected rows after replace: %+v", rows)
	}
	rows, _ = s.RowsForDate(ctx, other)
	if len(rows) != 1 {
		t.Fatalf("other day must be untouched, got %+v", rows)
	}

	if err := s.DeleteForDate(ctx, d); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rows, _ := s.RowsForDate(ctx, d); len(rows) != 0 {
		t.Fatalf("expected no rows, got %+v", rows)
	}
}

func TestMemoryStoreCategoryTotals(t *testing.T) {
	s := New([]core.Expense{
		exp(core.NewDate(2024, 7, 31), 100, "Food"), // outside range
		exp(core.NewDate(2024, 8, 1), 10, "Shopping"),
		exp(core.NewDate(2024, 8, 5), 20, "Food"),
		exp(core.NewDate(2024, 8, 31), 5, "Shopping"),
	})
	rows, err := s.CategoryTotals(context.Background(), core.NewDate(2024, 8, 1), core.NewDate(2024, 8, 31))
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(rows) != 2 || rows[0].Category != "Shopping" || rows[1].Category != "Food" {
		t.Fatalf("unexpected order: %+v", rows)
	}
	if !rows[0].Total.Equal(decimal.NewFromInt(15)) || !rows[1].Total.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected totals: %+v", rows)
	}
}

func TestMemoryStoreCategoryTotalsIgnoreCase(t *testing.T) {
	d := core.NewDate(2024, 8, 1)
	s := New([]core.Expense{
		exp(d, 150, "Shopping"),
		exp(d, 100, "Food"),
		exp(d, 100, "food"),
	})
	rows, err := s.CategoryTotals(context.Background(), d, d)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(rows) != 2 || rows[1].Category != "Food" || !rows[1].Total.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected Food and food merged under the first spelling, got %+v", rows)
	}
}

func TestMemoryStoreDataVersion(t *testing.T) {
	ctx := context.Background()
	d := core.NewDate(2024, 8, 1)
	s := New(nil)

	seen := map[string]bool{}
	check := func(step string) {
		t.Helper()
		v, err := s.DataVersion(ctx)
		if err != nil {
			t.Fatalf("%s: %v", step, err)
		}
		if seen[v] {
			t.Fatalf("%s: version %s repeated", step, v)
		}
		seen[v] = true
	}

	check("initial")
	if err := s.Insert(ctx, exp(d, 5, "Food")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	check("insert")
	if err := s.ReplaceDay(ctx, d, []core.Expense{exp(d, 5, "Food")}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	check("replace")
	if err := s.DeleteForDate(ctx, d); err != nil {
		t.Fatalf("delete: %v", err)
	}
	check("delete")
}

func TestMemoryStoreMonthlyTotals(t *testing.T) {
	s := New([]core.Expense{
		exp(core.NewDate(2024, 8, 1), 10, "Food"),
		exp(core.NewDate(2023, 8, 9), 5, "Food"),
		exp(core.NewDate(2024, 2, 1), 1, "Food"),
	})
	rows, err := s.MonthlyTotals(context.Background())
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if len(rows) != 2 || rows[0].Month != time.February || rows[1].Month != time.August {
		t.Fatalf("unexpected months: %+v", rows)
	}
	if !rows[1].Total.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected years merged, got %s", rows[1].Total)
	}
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	s := NewFromFiles(dir)
	if rows, _ := s.MonthlyTotals(context.Background()); len(rows) != 0 {
		t.Fatalf("expected empty store without seed file")
	}

	content := "# date,amount,category,notes\n2024-08-01,12.50,Food,lunch, with friends\n\nbroken line\n2024-08-02,-3,Food\n2024-08-03,7,Rent\n"
	if err := os.WriteFile(filepath.Join(dir, SeedFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	s = NewFromFiles(dir)
	rows, _ := s.RowsForDate(context.Background(), core.NewDate(2024, 8, 1))
	if len(rows) != 1 || rows[0].Notes != "lunch, with friends" || rows[0].Amount.String() != "12.5" {
		t.Fatalf("unexpected seeded rows: %+v", rows)
	}
	if rows, _ := s.RowsForDate(context.Background(), core.NewDate(2024, 8, 2)); len(rows) != 0 {
		t.Fatalf("negative seed line should be skipped")
	}
}
