package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"artha/internal/core"
	"artha/internal/store"
)

// DayPublisher announces replaced days to downstream consumers.
type DayPublisher interface {
	PublishDayReplaced(ctx context.Context, date core.Date, count int) error
}

// ExpenseService orchestrates day-level expense writes across the store,
// change events and cache invalidation.
type ExpenseService struct {
	store     store.Store
	publisher DayPublisher

	mu       sync.Mutex
	onChange []func()
}

// NewExpenseService wires a store and an optional publisher (nil disables events).
func NewExpenseService(st store.Store, publisher DayPublisher) *ExpenseService {
	return &ExpenseService{
		store:     st,
		publisher: publisher,
	}
}

// OnChange registers fn to run after every successful write.
func (s *ExpenseService) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// ExpensesForDate returns every expense recorded on date.
func (s *ExpenseService) ExpensesForDate(ctx context.Context, date core.Date) ([]core.Expense, error) {
	if err := date.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.store.RowsForDate(ctx, date)
	if err != nil {
		return nil, storeError("rows_for_date", err)
	}
	return rows, nil
}

// ReplaceDay swaps all expenses of date for the given ones. Every row is
// stamped with date and validated before the store is touched.
func (s *ExpenseService) ReplaceDay(ctx context.Context, date core.Date, expenses []core.Expense) error {
	if err := date.Validate(); err != nil {
		return err
	}
	rows := make([]core.Expense, len(expenses))
	for i, e := range expenses {
		e.Date = date
		if err := e.Validate(); err != nil {
			return fmt.Errorf("expense %d: %w", i+1, err)
		}
		rows[i] = e
	}

	if err := s.replace(ctx, date, rows); err != nil {
		return storeError("replace_day", err)
	}

	s.notify()

	if s.publisher != nil {
		if err := s.publisher.PublishDayReplaced(ctx, date, len(rows)); err != nil {
			// The write already succeeded; the mirror catches up on the next change.
			slog.ErrorContext(ctx, "Failed to publish day replaced message",
				"date", date.String(), "error", err)
		}
	}
	return nil
}

func (s *ExpenseService) replace(ctx context.Context, date core.Date, rows []core.Expense) error {
	if r, ok := s.store.(store.DayReplacer); ok {
		return r.ReplaceDay(ctx, date, rows)
	}
	if err := s.store.DeleteForDate(ctx, date); err != nil {
		return err
	}
	for _, e := range rows {
		if err := s.store.Insert(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExpenseService) notify() {
	s.mu.Lock()
	hooks := append([]func(){}, s.onChange...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// storeError wraps a store failure once; already wrapped errors pass through.
func storeError(op string, err error) error {
	var sue *core.StoreUnavailableError
	if errors.As(err, &sue) {
		return err
	}
	return &core.StoreUnavailableError{Op: op, Err: err}
}
