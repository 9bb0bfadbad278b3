package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"artha/internal/analytics"
	"artha/internal/core"
	"artha/internal/storage"
)

type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

func august(day int) core.Date { return core.NewDate(2024, 8, day) }

func seededStore() *countingStore {
	return newCountingStore(
		core.Expense{Date: august(1), Amount: decimal.NewFromInt(1000), Category: "Rent"},
		core.Expense{Date: august(5), Amount: decimal.NewFromInt(600), Category: "Food"},
		core.Expense{Date: august(9), Amount: decimal.NewFromInt(400), Category: "Shopping"},
		core.Expense{Date: core.NewDate(2024, 3, 2), Amount: decimal.NewFromInt(50), Category: "Food"},
	)
}

func newTestAnalytics(st *countingStore) *AnalyticsService {
	return NewAnalyticsService(st, AnalyticsConfig{
		CacheSize: 10,
		CacheTTL:  time.Minute,
		Picker:    analytics.NewWisdomPicker(firstRand{}),
	})
}

func TestAnalyticsService_GetBreakdownCachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	st := seededStore()
	svc := newTestAnalytics(st)

	b, err := svc.GetBreakdown(ctx, august(1), august(31))
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if s, _ := b.Lookup("Rent"); !s.Percentage.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected Rent at 50%%, got %s", s.Percentage)
	}
	if _, err := svc.GetBreakdown(ctx, august(1), august(31)); err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if st.categoryCalls != 1 {
		t.Fatalf("expected second call served from cache, store called %d times", st.categoryCalls)
	}

	expenses := NewExpenseService(st, nil)
	expenses.OnChange(svc.Invalidate)
	if err := expenses.ReplaceDay(ctx, august(9), nil); err != nil {
		t.Fatalf("replace: %v", err)
	}

	b, err = svc.GetBreakdown(ctx, august(1), august(31))
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if st.categoryCalls != 2 {
		t.Fatalf("expected cache purge after write, store called %d times", st.categoryCalls)
	}
	if _, ok := b.Lookup("Shopping"); ok {
		t.Fatalf("stale breakdown returned after write")
	}
}

func TestAnalyticsService_Errors(t *testing.T) {
	ctx := context.Background()
	svc := newTestAnalytics(newCountingStore())

	if _, err := svc.GetBreakdown(ctx, august(1), august(31)); !errors.Is(err, core.ErrEmptyData) {
		t.Errorf("expected ErrEmptyData, got %v", err)
	}
	if _, err := svc.GetMonthlyBreakdown(ctx); !errors.Is(err, core.ErrEmptyData) {
		t.Errorf("expected ErrEmptyData, got %v", err)
	}
	if _, err := svc.GetBreakdown(ctx, august(31), august(1)); !errors.Is(err, core.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}

	down := newCountingStore()
	down.fail = true
	svc = newTestAnalytics(down)
	_, err := svc.GetBreakdown(ctx, august(1), august(31))
	var sue *core.StoreUnavailableError
	if !errors.As(err, &sue) || !errors.Is(err, errStoreDown) {
		t.Errorf("expected StoreUnavailableError, got %v", err)
	}
}

func TestAnalyticsService_PlanSavings(t *testing.T) {
	svc := newTestAnalytics(seededStore())
	advice, err := svc.PlanSavings(context.Background(), core.SavingsRequest{
		Target:    decimal.NewFromInt(100),
		StartDate: august(1),
		EndDate:   august(31),
		Period:    core.PeriodWeek,
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if advice.Category != "Food" || advice.NumPeriods != 5 || !advice.SavePerPeriod.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected advice %+v", advice)
	}
}

func TestAnalyticsService_CategoriesDifferingOnlyInCase(t *testing.T) {
	ctx := context.Background()
	svc := newTestAnalytics(newCountingStore(
		core.Expense{Date: august(1), Amount: decimal.NewFromInt(150), Category: "Shopping"},
		core.Expense{Date: august(1), Amount: decimal.NewFromInt(100), Category: "Food"},
		core.Expense{Date: august(1), Amount: decimal.NewFromInt(100), Category: "food"},
	))

	b, err := svc.GetBreakdown(ctx, august(1), august(1))
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 categories, got %+v", b.Shares)
	}
	if s, _ := b.Lookup("Food"); !s.Total.Equal(decimal.NewFromInt(200)) || !s.Percentage.Round(2).Equal(decimal.RequireFromString("57.14")) {
		t.Fatalf("unexpected Food share %+v", s)
	}

	advice, err := svc.PlanSavings(ctx, core.SavingsRequest{
		Target:    decimal.NewFromInt(70),
		StartDate: august(1),
		EndDate:   august(1),
		Period:    core.PeriodWeek,
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if advice.Category != "Food" {
		t.Fatalf("expected merged Food to be cut, got %+v", advice)
	}
}

func TestAnalyticsService_SeesWritesFromAnotherConnection(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "artha.db")
	open := func() *storage.SQLiteRepository {
		repo, err := storage.NewSQLiteRepository(path)
		if err != nil {
			t.Fatalf("open repo: %v", err)
		}
		t.Cleanup(func() { repo.Close() })
		return repo
	}
	server, writer := open(), open()
	for _, e := range []core.Expense{
		{Date: august(1), Amount: decimal.NewFromInt(1000), Category: "Rent"},
		{Date: august(5), Amount: decimal.NewFromInt(600), Category: "Food"},
		{Date: august(9), Amount: decimal.NewFromInt(400), Category: "Shopping"},
	} {
		if err := server.Insert(ctx, e); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	svc := NewAnalyticsService(server, AnalyticsConfig{CacheTTL: time.Hour})

	if b, err := svc.GetBreakdown(ctx, august(1), august(31)); err != nil || b.Len() != 3 {
		t.Fatalf("breakdown: %d categories, err=%v", b.Len(), err)
	}
	if _, err := svc.GetMonthlyBreakdown(ctx); err != nil {
		t.Fatalf("monthly: %v", err)
	}

	if err := writer.Insert(ctx, core.Expense{Date: august(20), Amount: decimal.NewFromInt(1000), Category: "Travel"}); err != nil {
		t.Fatalf("insert through second connection: %v", err)
	}

	b, err := svc.GetBreakdown(ctx, august(1), august(31))
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if _, ok := b.Lookup("Travel"); !ok || b.Len() != 4 {
		t.Fatalf("stale breakdown after external write: %+v", b.Shares)
	}
	m, err := svc.GetMonthlyBreakdown(ctx)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if len(m) != 1 || !m[0].Total.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("stale monthly totals after external write: %+v", m)
	}
	if st := svc.CacheStats(); st.Hits != 0 {
		t.Fatalf("expected no cache hits across versions, got %d", st.Hits)
	}
}

func TestAnalyticsService_Insights(t *testing.T) {
	svc := newTestAnalytics(seededStore())
	ins, err := svc.Insights(context.Background(), august(1), august(31))
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	if ins.Score.Score != 72 || ins.Score.Grade != core.GradeShreshtha {
		t.Fatalf("unexpected score %+v", ins.Score)
	}
	if ins.Wisdom.Context != core.ContextBalanced {
		t.Errorf("expected balanced wisdom, got %s", ins.Wisdom.Context)
	}
	if len(ins.Categories) != 3 || ins.Categories[0].Category != "Rent" || !ins.Categories[0].Mandatory || ins.Categories[2].Category != "Shopping" {
		t.Errorf("unexpected ranking %+v", ins.Categories)
	}
	if len(ins.Monthly) != 2 || ins.Monthly[0].Month != time.March {
		t.Errorf("unexpected monthly trend %+v", ins.Monthly)
	}
}

func TestAnalyticsService_InsightsOnEmptyRange(t *testing.T) {
	svc := newTestAnalytics(newCountingStore())
	ins, err := svc.Insights(context.Background(), august(1), august(31))
	if err != nil {
		t.Fatalf("empty range should not fail: %v", err)
	}
	if ins.Score.Grade != core.GradeUnrated || ins.Score.Score != 50 {
		t.Fatalf("expected Unrated/50, got %+v", ins.Score)
	}
	if ins.Wisdom.Context != core.ContextGeneral {
		t.Errorf("expected general wisdom, got %s", ins.Wisdom.Context)
	}
}

func TestAnalyticsService_InsightsStoreFailure(t *testing.T) {
	st := seededStore()
	st.fail = true
	svc := newTestAnalytics(st)
	_, err := svc.Insights(context.Background(), august(1), august(31))
	var sue *core.StoreUnavailableError
	if !errors.As(err, &sue) {
		t.Fatalf("expected StoreUnavailableError, got %v", err)
	}
}
