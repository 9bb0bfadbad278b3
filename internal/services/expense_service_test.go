package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"artha/internal/core"
)

func TestExpenseService_ReplaceDay(t *testing.T) {
	ctx := context.Background()
	d := core.NewDate(2024, 8, 1)
	st := newCountingStore(core.Expense{Date: d, Amount: decimal.NewFromInt(5), Category: "Old"})
	pub := &fakePublisher{}
	svc := NewExpenseService(st, pub)

	changes := 0
	svc.OnChange(func() { changes++ })

	err := svc.ReplaceDay(ctx, d, []core.Expense{
		{Amount: decimal.NewFromInt(10), Category: "Food", Notes: "lunch"},
		{Amount: decimal.NewFromInt(0), Category: "Gift"},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	rows, err := svc.ExpensesForDate(ctx, d)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 || rows[0].Category != "Food" || !rows[0].Date.Equal(d.Time) {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if changes != 1 {
		t.Errorf("expected one change notification, got %d", changes)
	}
	if len(pub.sent) != 1 || pub.sent[0].count != 2 || !pub.sent[0].date.Equal(d.Time) {
		t.Errorf("unexpected published messages %+v", pub.sent)
	}
}

func TestExpenseService_ReplaceDayValidatesFirst(t *testing.T) {
	ctx := context.Background()
	d := core.NewDate(2024, 8, 1)
	st := newCountingStore(core.Expense{Date: d, Amount: decimal.NewFromInt(5), Category: "Old"})
	svc := NewExpenseService(st, nil)

	err := svc.ReplaceDay(ctx, d, []core.Expense{
		{Amount: decimal.NewFromInt(10), Category: "Food"},
		{Amount: decimal.NewFromInt(-1), Category: "Bad"},
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	rows, _ := svc.ExpensesForDate(ctx, d)
	if len(rows) != 1 || rows[0].Category != "Old" {
		t.Fatalf("day must be untouched after a validation failure, got %+v", rows)
	}
}

func TestExpenseService_PublishFailureDoesNotFailWrite(t *testing.T) {
	d := core.NewDate(2024, 8, 1)
	svc := NewExpenseService(newCountingStore(), &fakePublisher{err: errors.New("circuit breaker is open")})
	if err := svc.ReplaceDay(context.Background(), d, []core.Expense{{Amount: decimal.NewFromInt(1), Category: "Food"}}); err != nil {
		t.Fatalf("publish failure must not fail the write: %v", err)
	}
}

func TestExpenseService_StoreFailure(t *testing.T) {
	st := newCountingStore()
	st.fail = true
	svc := NewExpenseService(st, nil)
	d := core.NewDate(2024, 8, 1)

	_, err := svc.ExpensesForDate(context.Background(), d)
	var sue *core.StoreUnavailableError
	if !errors.As(err, &sue) || !errors.Is(err, errStoreDown) {
		t.Fatalf("expected StoreUnavailableError wrapping the cause, got %v", err)
	}

	err = svc.ReplaceDay(context.Background(), d, nil)
	if !errors.As(err, &sue) || sue.Op != "replace_day" {
		t.Fatalf("expected replace_day StoreUnavailableError, got %v", err)
	}
}

func TestStoreErrorWrapsOnce(t *testing.T) {
	inner := &core.StoreUnavailableError{Op: "inner", Err: errStoreDown}
	got := storeError("outer", inner)
	var sue *core.StoreUnavailableError
	if !errors.As(got, &sue) || sue.Op != "inner" {
		t.Fatalf("expected the original error to pass through, got %v", got)
	}
}
