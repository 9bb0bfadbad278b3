package sheets

import (
	"context"

	"artha/internal/core"
)

// Ports for outbound spreadsheet adapters.
type (
	// DayMirror keeps a copy of each day's expenses outside the record store.
	DayMirror interface {
		ReplaceDay(ctx context.Context, date core.Date, expenses []core.Expense) error
	}

	// DayLister reads back the mirrored rows of one day.
	DayLister interface {
		ListDay(ctx context.Context, date core.Date) ([]core.Expense, error)
	}
)
