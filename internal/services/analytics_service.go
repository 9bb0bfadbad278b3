package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"artha/internal/analytics"
	"artha/internal/cache"
	"artha/internal/core"
	"artha/internal/store"
)

const monthlyCacheKey = "monthly"

// RankedCategory is a breakdown row prepared for display.
type RankedCategory struct {
	Category   string
	Total      decimal.Decimal
	Percentage decimal.Decimal
	Mandatory  bool
}

// Insights bundles the health score with everything shown next to it.
type Insights struct {
	StartDate   core.Date
	EndDate     core.Date
	Score       core.HealthScore
	Wisdom      core.Wisdom
	Categories  []RankedCategory // total descending
	Monthly     []core.MonthlyTotal
	DailyWisdom core.Wisdom
}

// AnalyticsService runs the analytics computations against the record store.
// Results are cached under the store's data version, so a write from any
// process makes earlier entries unreachable. Stores without a version are
// never cached.
type AnalyticsService struct {
	store      store.SummaryReader
	picker     *analytics.WisdomPicker
	caches     *cache.Manager
	breakdowns *cache.LRUCache[core.CategoryBreakdown]
	monthly    *cache.LRUCache[[]core.MonthlyTotal]
	logger     *slog.Logger
}

type AnalyticsConfig struct {
	CacheSize int
	CacheTTL  time.Duration
	Picker    *analytics.WisdomPicker
	Caches    *cache.Manager
	Logger    *slog.Logger
}

func NewAnalyticsService(st store.SummaryReader, cfg AnalyticsConfig) *AnalyticsService {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 100
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.Picker == nil {
		cfg.Picker = analytics.NewWisdomPicker(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Caches == nil {
		cfg.Caches = cache.NewManager(cfg.Logger)
	}

	s := &AnalyticsService{
		store:      st,
		picker:     cfg.Picker,
		caches:     cfg.Caches,
		breakdowns: cache.NewLRUCache[core.CategoryBreakdown](cfg.CacheSize, cfg.CacheTTL),
		monthly:    cache.NewLRUCache[[]core.MonthlyTotal](1, cfg.CacheTTL),
		logger:     cfg.Logger,
	}
	s.caches.Register(s.breakdowns)
	s.caches.Register(s.monthly)
	return s
}

// Invalidate drops every cached result.
func (s *AnalyticsService) Invalidate() {
	s.caches.PurgeAll()
}

// GetBreakdown returns category totals and shares for [start, end].
func (s *AnalyticsService) GetBreakdown(ctx context.Context, start, end core.Date) (core.CategoryBreakdown, error) {
	if err := core.ValidateRange(start, end); err != nil {
		return core.CategoryBreakdown{}, err
	}
	version, cacheable, err := s.dataVersion(ctx)
	if err != nil {
		return core.CategoryBreakdown{}, err
	}
	key := version + "|" + start.String() + ".." + end.String()
	if cacheable {
		if b, ok := s.breakdowns.Get(key); ok {
			s.logger.DebugContext(ctx, "Breakdown served from cache", "cache_key", key)
			return b, nil
		}
	}

	rows, err := s.store.CategoryTotals(ctx, start, end)
	if err != nil {
		return core.CategoryBreakdown{}, storeError("category_totals", err)
	}
	b, err := analytics.ComputeBreakdown(rows)
	if err != nil {
		return core.CategoryBreakdown{}, err
	}
	if cacheable {
		s.breakdowns.Set(key, b)
	}
	s.logger.DebugContext(ctx, "Breakdown computed",
		"start_date", start.String(), "end_date", end.String(), "categories", b.Len())
	return b, nil
}

// CacheStats sums the counters of the breakdown and monthly caches.
func (s *AnalyticsService) CacheStats() cache.Stats {
	b, m := s.breakdowns.Stats(), s.monthly.Stats()
	return cache.Stats{Hits: b.Hits + m.Hits, Misses: b.Misses + m.Misses, Size: b.Size + m.Size}
}

// GetMonthlyBreakdown returns spending per month of year, January first.
func (s *AnalyticsService) GetMonthlyBreakdown(ctx context.Context) ([]core.MonthlyTotal, error) {
	version, cacheable, err := s.dataVersion(ctx)
	if err != nil {
		return nil, err
	}
	key := monthlyCacheKey + "|" + version
	if cacheable {
		if m, ok := s.monthly.Get(key); ok {
			return m, nil
		}
	}
	rows, err := s.store.MonthlyTotals(ctx)
	if err != nil {
		return nil, storeError("monthly_totals", err)
	}
	m, err := analytics.ComputeMonthly(rows)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.monthly.Set(key, m)
	}
	return m, nil
}

// dataVersion reports the store's current data version and whether results
// may be cached under it.
func (s *AnalyticsService) dataVersion(ctx context.Context) (string, bool, error) {
	vs, ok := s.store.(store.Versioned)
	if !ok {
		return "", false, nil
	}
	v, err := vs.DataVersion(ctx)
	switch {
	case errors.Is(err, store.ErrUnversioned):
		return "", false, nil
	case err != nil:
		return "", false, storeError("data_version", err)
	}
	return v, true, nil
}

// PlanSavings recommends which category to cut and by how much per period.
func (s *AnalyticsService) PlanSavings(ctx context.Context, req core.SavingsRequest) (core.SavingsAdvice, error) {
	if err := req.Validate(); err != nil {
		return core.SavingsAdvice{}, err
	}
	rows, err := s.store.CategoryTotals(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return core.SavingsAdvice{}, storeError("category_totals", err)
	}
	advice, err := analytics.PlanSavings(req, rows)
	if err != nil {
		return core.SavingsAdvice{}, err
	}
	s.logger.InfoContext(ctx, "Savings plan computed",
		"category", advice.Category,
		"period", string(advice.Period),
		"periods", advice.NumPeriods,
		"save_per_period", advice.SavePerPeriod.StringFixed(core.CentsPlaces))
	return advice, nil
}

// ScoreHealth grades a breakdown. It never fails.
func (s *AnalyticsService) ScoreHealth(b core.CategoryBreakdown) core.HealthScore {
	return analytics.ScoreHealth(b)
}

// Wisdom picks a quotation for ctx, falling back to general ones.
func (s *AnalyticsService) Wisdom(ctx core.WisdomContext) core.Wisdom {
	return s.picker.ForContext(ctx)
}

// DailyWisdom picks any quotation.
func (s *AnalyticsService) DailyWisdom() core.Wisdom {
	return s.picker.Any()
}

// Insights scores [start, end] and gathers the monthly trend alongside it.
// A range without expenses is graded Unrated rather than reported as an error.
func (s *AnalyticsService) Insights(ctx context.Context, start, end core.Date) (Insights, error) {
	if err := core.ValidateRange(start, end); err != nil {
		return Insights{}, err
	}

	var (
		breakdown core.CategoryBreakdown
		monthly   []core.MonthlyTotal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := s.GetBreakdown(gctx, start, end)
		if errors.Is(err, core.ErrEmptyData) {
			return nil
		}
		breakdown = b
		return err
	})
	g.Go(func() error {
		m, err := s.GetMonthlyBreakdown(gctx)
		if errors.Is(err, core.ErrEmptyData) {
			return nil
		}
		monthly = m
		return err
	})
	if err := g.Wait(); err != nil {
		return Insights{}, fmt.Errorf("gather insights: %w", err)
	}

	score := s.ScoreHealth(breakdown)
	s.logger.InfoContext(ctx, "Health score computed",
		"start_date", start.String(), "end_date", end.String(),
		"score", score.Score, "grade", string(score.Grade))

	return Insights{
		StartDate:   start,
		EndDate:     end,
		Score:       score,
		Wisdom:      s.Wisdom(score.Context),
		Categories:  rank(breakdown),
		Monthly:     monthly,
		DailyWisdom: s.DailyWisdom(),
	}, nil
}

func rank(b core.CategoryBreakdown) []RankedCategory {
	out := make([]RankedCategory, 0, b.Len())
	for _, sh := range b.Shares {
		out = append(out, RankedCategory{
			Category:   sh.Category,
			Total:      sh.Total,
			Percentage: sh.Percentage,
			Mandatory:  analytics.IsScorerMandatory(sh.Category),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	return out
}
