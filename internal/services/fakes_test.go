package services

import (
	"context"
	"errors"
	"sync"

	"artha/internal/core"
	"artha/internal/store/memory"
)

var errStoreDown = errors.New("connection refused")

// countingStore wraps the memory store, counts summary queries and can be told to fail.
type countingStore struct {
	*memory.Store
	mu            sync.Mutex
	categoryCalls int
	monthlyCalls  int
	fail          bool
}

func newCountingStore(seed ...core.Expense) *countingStore {
	return &countingStore{Store: memory.New(seed)}
}

func (c *countingStore) CategoryTotals(ctx context.Context, start, end core.Date) ([]core.CategoryTotal, error) {
	c.mu.Lock()
	c.categoryCalls++
	fail := c.fail
	c.mu.Unlock()
	if fail {
		return nil, errStoreDown
	}
	return c.Store.CategoryTotals(ctx, start, end)
}

func (c *countingStore) MonthlyTotals(ctx context.Context) ([]core.MonthTotalRaw, error) {
	c.mu.Lock()
	c.monthlyCalls++
	fail := c.fail
	c.mu.Unlock()
	if fail {
		return nil, errStoreDown
	}
	return c.Store.MonthlyTotals(ctx)
}

func (c *countingStore) RowsForDate(ctx context.Context, d core.Date) ([]core.Expense, error) {
	c.mu.Lock()
	fail := c.fail
	c.mu.Unlock()
	if fail {
		return nil, errStoreDown
	}
	return c.Store.RowsForDate(ctx, d)
}

func (c *countingStore) ReplaceDay(ctx context.Context, d core.Date, rows []core.Expense) error {
	c.mu.Lock()
	fail := c.fail
	c.mu.Unlock()
	if fail {
		return errStoreDown
	}
	return c.Store.ReplaceDay(ctx, d, rows)
}

type publishedDay struct {
	date  core.Date
	count int
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []publishedDay
	err  error
}

func (f *fakePublisher) PublishDayReplaced(_ context.Context, date core.Date, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, publishedDay{date, count})
	return nil
}
