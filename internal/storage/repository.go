package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"artha/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Serialise writers; replace-day transactions would otherwise hit SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// RowsForDate implements store.DayReader
func (r *SQLiteRepository) RowsForDate(ctx context.Context, date core.Date) ([]core.Expense, error) {
	rows, err := r.queries.GetExpensesByDate(ctx, date.String())
	if err != nil {
		return nil, fmt.Errorf("get expenses by date: %w", err)
	}

	expenses := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		e, err := toCore(row)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// Insert implements store.ExpenseWriter
func (r *SQLiteRepository) Insert(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	id, err := r.queries.CreateExpense(ctx, toParams(e))
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved to SQLite",
		"id", id,
		"date", e.Date.String(),
		"amount_cents", core.AmountToCents(e.Amount),
		"category", e.Category)
	return nil
}

// DeleteForDate implements store.DayDeleter
func (r *SQLiteRepository) DeleteForDate(ctx context.Context, date core.Date) error {
	n, err := r.queries.DeleteExpensesByDate(ctx, date.String())
	if err != nil {
		return fmt.Errorf("delete expenses by date: %w", err)
	}
	slog.DebugContext(ctx, "Expenses deleted from SQLite", "date", date.String(), "rows", n)
	return nil
}

// ReplaceDay implements store.DayReplacer: delete and re-insert in one transaction.
func (r *SQLiteRepository) ReplaceDay(ctx context.Context, date core.Date, expenses []core.Expense) error {
	for _, e := range expenses {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if _, err := q.DeleteExpensesByDate(ctx, date.String()); err != nil {
		return fmt.Errorf("delete expenses by date: %w", err)
	}
	for _, e := range expenses {
		if _, err := q.CreateExpense(ctx, toParams(e)); err != nil {
			return fmt.Errorf("create expense: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Day replaced in SQLite", "date", date.String(), "rows", len(expenses))
	return nil
}

// CategoryTotals implements store.SummaryReader
func (r *SQLiteRepository) CategoryTotals(ctx context.Context, start, end core.Date) ([]core.CategoryTotal, error) {
	rows, err := r.queries.GetCategoryTotals(ctx, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("get category totals: %w", err)
	}
	out := make([]core.CategoryTotal, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.CategoryTotal{
			Category: row.Category,
			Total:    core.AmountFromCents(row.TotalCents),
		})
	}
	return out, nil
}

// MonthlyTotals implements store.SummaryReader
func (r *SQLiteRepository) MonthlyTotals(ctx context.Context) ([]core.MonthTotalRaw, error) {
	rows, err := r.queries.GetMonthlyTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("get monthly totals: %w", err)
	}
	out := make([]core.MonthTotalRaw, 0, len(rows))
	for _, row := range rows {
		if row.MonthNum < 1 || row.MonthNum > 12 {
			return nil, fmt.Errorf("unexpected month number %d", row.MonthNum)
		}
		out = append(out, core.MonthTotalRaw{
			Month: time.Month(row.MonthNum),
			Total: core.AmountFromCents(row.TotalCents),
		})
	}
	return out, nil
}

// DataVersion changes whenever any connection inserts or deletes expenses.
// Rows are never updated in place and AUTOINCREMENT ids are never reused, so
// every insert raises MAX(id) and every delete alone lowers COUNT(*).
func (r *SQLiteRepository) DataVersion(ctx context.Context) (string, error) {
	v, err := r.queries.GetDataVersion(ctx)
	if err != nil {
		return "", fmt.Errorf("get data version: %w", err)
	}
	return fmt.Sprintf("%d.%d", v.Count, v.MaxID), nil
}

// Count returns the number of stored expenses.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountExpenses(ctx)
	if err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return n, nil
}

func toParams(e core.Expense) CreateExpenseParams {
	return CreateExpenseParams{
		ExpenseDate: e.Date.String(),
		AmountCents: core.AmountToCents(e.Amount),
		Category:    e.Category,
		Notes:       e.Notes,
	}
}

func toCore(row Expense) (core.Expense, error) {
	date, err := core.ParseDate(row.ExpenseDate)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d: %w", row.ID, err)
	}
	return core.Expense{
		Date:     date,
		Amount:   core.AmountFromCents(row.AmountCents),
		Category: row.Category,
		Notes:    row.Notes,
	}, nil
}
