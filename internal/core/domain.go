package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

const (
	maxCategoryLen = 64
	maxNotesLen    = 200
)

type (
	// Date is a calendar day at UTC midnight.
	Date struct {
		time.Time
	}

	Expense struct {
		Date     Date
		Amount   decimal.Decimal
		Category string
		Notes    string
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrNotesTooLong  = fmt.Errorf("notes too long (max %d characters)", maxNotesLen)
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

// DaysUntil returns the number of whole days from d to end (negative if end is earlier).
func (d Date) DaysUntil(end Date) int {
	return int(end.Sub(d.Time).Hours() / 24)
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	// Stores keep whole cents; sub-cent amounts must be rounded by the caller.
	if !e.Amount.Equal(e.Amount.Round(CentsPlaces)) {
		return fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, CentsPlaces)
	}
	category := strings.TrimSpace(e.Category)
	if category == "" {
		return ErrEmptyCategory
	}
	if len(category) > maxCategoryLen {
		return fmt.Errorf("%w: category too long (max %d characters)", ErrEmptyCategory, maxCategoryLen)
	}
	if len(e.Notes) > maxNotesLen {
		return ErrNotesTooLong
	}
	return nil
}
