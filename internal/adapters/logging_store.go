// Package adapters holds decorators that sit between the services and a store.
package adapters

import (
	"context"
	"fmt"
	"time"

	"artha/internal/core"
	"artha/internal/log"
	"artha/internal/store"
)

// LoggingStore logs every record store call with its arguments and duration.
// It forwards ReplaceDay when the wrapped store supports it and falls back to
// delete-then-insert otherwise.
type LoggingStore struct {
	next   store.Store
	logger *log.Logger
}

func NewLoggingStore(next store.Store, logger *log.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger.WithComponent(log.ComponentStorage)}
}

func (s *LoggingStore) RowsForDate(ctx context.Context, date core.Date) ([]core.Expense, error) {
	start := time.Now()
	rows, err := s.next.RowsForDate(ctx, date)
	s.record(ctx, log.OpRowsForDate, start, err, log.FieldDate, date.String(), log.FieldRows, len(rows))
	return rows, err
}

func (s *LoggingStore) Insert(ctx context.Context, e core.Expense) error {
	start := time.Now()
	err := s.next.Insert(ctx, e)
	s.record(ctx, log.OpInsert, start, err,
		log.FieldDate, e.Date.String(),
		log.FieldAmount, e.Amount.StringFixed(core.CentsPlaces),
		log.FieldCategory, e.Category)
	return err
}

func (s *LoggingStore) DeleteForDate(ctx context.Context, date core.Date) error {
	start := time.Now()
	err := s.next.DeleteForDate(ctx, date)
	s.record(ctx, log.OpDeleteForDate, start, err, log.FieldDate, date.String())
	return err
}

func (s *LoggingStore) ReplaceDay(ctx context.Context, date core.Date, expenses []core.Expense) error {
	start := time.Now()
	var err error
	if r, ok := s.next.(store.DayReplacer); ok {
		err = r.ReplaceDay(ctx, date, expenses)
	} else {
		err = s.deleteThenInsert(ctx, date, expenses)
	}
	s.record(ctx, log.OpReplaceDay, start, err, log.FieldDate, date.String(), log.FieldRows, len(expenses))
	return err
}

func (s *LoggingStore) CategoryTotals(ctx context.Context, startDate, endDate core.Date) ([]core.CategoryTotal, error) {
	start := time.Now()
	rows, err := s.next.CategoryTotals(ctx, startDate, endDate)
	s.record(ctx, log.OpCategoryTotals, start, err,
		log.FieldStartDate, startDate.String(),
		log.FieldEndDate, endDate.String(),
		log.FieldRows, len(rows))
	return rows, err
}

func (s *LoggingStore) MonthlyTotals(ctx context.Context) ([]core.MonthTotalRaw, error) {
	start := time.Now()
	rows, err := s.next.MonthlyTotals(ctx)
	s.record(ctx, log.OpMonthlyTotals, start, err, log.FieldRows, len(rows))
	return rows, err
}

// DataVersion is forwarded without a log line; it runs before every cached read.
func (s *LoggingStore) DataVersion(ctx context.Context) (string, error) {
	v, ok := s.next.(store.Versioned)
	if !ok {
		return "", store.ErrUnversioned
	}
	return v.DataVersion(ctx)
}

// deleteThenInsert is not atomic: a concurrent writer for the same date can interleave.
func (s *LoggingStore) deleteThenInsert(ctx context.Context, date core.Date, expenses []core.Expense) error {
	if err := s.next.DeleteForDate(ctx, date); err != nil {
		return fmt.Errorf("delete day: %w", err)
	}
	for _, e := range expenses {
		if err := s.next.Insert(ctx, e); err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
	}
	return nil
}

func (s *LoggingStore) record(ctx context.Context, op string, start time.Time, err error, args ...any) {
	args = append(args, log.FieldOperation, op, log.FieldDuration, time.Since(start).Milliseconds())
	if err != nil {
		s.logger.ErrorContext(ctx, "Store call failed", append(args, log.FieldError, err.Error())...)
		return
	}
	s.logger.InfoContext(ctx, "Store call", args...)
}
