package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Period is the unit a savings target is spread over.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod accepts "week" or "month", case-insensitively.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodWeek, PeriodMonth:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q (must be week or month)", ErrInvalidPeriod, s)
}

var (
	ErrEmptyData       = errors.New("no expenses in that range")
	ErrNoDiscretionary = errors.New("no discretionary spending found to cut")
	ErrInvalidRange    = errors.New("start date must not be after end date")
	ErrInvalidPeriod   = errors.New("invalid period")
	ErrInvalidTarget   = errors.New("target must be greater than zero")
)

// StoreUnavailableError reports a failure of the underlying record store.
// The cause is passed through untouched.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("record store unavailable (%s): %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// IsValidationError reports whether err is caused by bad caller input.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidRange, ErrInvalidPeriod, ErrInvalidTarget,
		ErrInvalidDate, ErrInvalidAmount, ErrEmptyCategory, ErrNotesTooLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// CategoryTotal is one row of a grouped-by-category sum over a date range.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// CategoryShare is a category total together with its share of all spending.
type CategoryShare struct {
	Category   string
	Total      decimal.Decimal
	Percentage decimal.Decimal // 0..100
}

// CategoryBreakdown keeps category shares in the order the store returned them.
type CategoryBreakdown struct {
	Shares []CategoryShare
}

func (b CategoryBreakdown) Len() int { return len(b.Shares) }

// Lookup returns the share for a category, matched exactly.
func (b CategoryBreakdown) Lookup(category string) (CategoryShare, bool) {
	for _, s := range b.Shares {
		if s.Category == category {
			return s, true
		}
	}
	return CategoryShare{}, false
}

// Total returns the sum of all category totals.
func (b CategoryBreakdown) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, s := range b.Shares {
		sum = sum.Add(s.Total)
	}
	return sum
}

// MonthTotalRaw is one row of the grouped-by-month sum over all history.
type MonthTotalRaw struct {
	Month time.Month
	Total decimal.Decimal
}

// MonthlyTotal is a month-of-year bucket; years sharing a month are merged.
type MonthlyTotal struct {
	Month      time.Month
	MonthLabel string
	Total      decimal.Decimal
}

type SavingsRequest struct {
	Target    decimal.Decimal
	StartDate Date
	EndDate   Date
	Period    Period
}

// Validate checks the request shape; it does not touch the store.
func (r SavingsRequest) Validate() error {
	if !r.Target.IsPositive() {
		return ErrInvalidTarget
	}
	if err := ValidateRange(r.StartDate, r.EndDate); err != nil {
		return err
	}
	if _, err := ParsePeriod(string(r.Period)); err != nil {
		return err
	}
	return nil
}

// ValidateRange checks both dates are set and start <= end.
func ValidateRange(start, end Date) error {
	if err := start.Validate(); err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	if err := end.Validate(); err != nil {
		return fmt.Errorf("end date: %w", err)
	}
	if start.After(end.Time) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange, start, end)
	}
	return nil
}

type SavingsAdvice struct {
	Category      string
	SavePerPeriod decimal.Decimal
	Period        Period
	NumPeriods    int
}
