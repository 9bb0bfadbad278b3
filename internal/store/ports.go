// Package store declares the record store ports the services depend on.
package store

import (
	"context"
	"errors"

	"artha/internal/core"
)

// ErrUnversioned is returned by decorators whose wrapped store is not Versioned.
var ErrUnversioned = errors.New("store does not track a data version")

// Ports for the expense record store.
type (
	DayReader interface {
		RowsForDate(ctx context.Context, date core.Date) ([]core.Expense, error)
	}

	ExpenseWriter interface {
		Insert(ctx context.Context, e core.Expense) error
	}

	DayDeleter interface {
		DeleteForDate(ctx context.Context, date core.Date) error
	}

	// SummaryReader provides the grouped-sum queries analytics is built on.
	SummaryReader interface {
		// CategoryTotals sums amounts per category over [start, end] inclusive.
		// Rows come back in the order each category was first recorded.
		CategoryTotals(ctx context.Context, start, end core.Date) ([]core.CategoryTotal, error)
		// MonthlyTotals sums amounts per calendar month over all history,
		// ordered by month number.
		MonthlyTotals(ctx context.Context) ([]core.MonthTotalRaw, error)
	}

	// DayReplacer is implemented by stores that can swap a day's rows atomically.
	DayReplacer interface {
		ReplaceDay(ctx context.Context, date core.Date, expenses []core.Expense) error
	}

	// Versioned stores report a token that changes whenever their contents
	// change, including writes made by other processes.
	Versioned interface {
		DataVersion(ctx context.Context) (string, error)
	}

	Store interface {
		DayReader
		ExpenseWriter
		DayDeleter
		SummaryReader
	}
)
