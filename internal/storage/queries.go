package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Expense struct {
	ID          int64
	ExpenseDate string
	AmountCents int64
	Category    string
	Notes       string
}

const getExpensesByDate = `-- name: GetExpensesByDate :many
SELECT id, expense_date, amount_cents, category, notes
FROM expenses
WHERE expense_date = ?
ORDER BY id
`

func (q *Queries) GetExpensesByDate(ctx context.Context, expenseDate string) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, getExpensesByDate, expenseDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Expense
	for rows.Next() {
		var i Expense
		if err := rows.Scan(&i.ID, &i.ExpenseDate, &i.AmountCents, &i.Category, &i.Notes); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createExpense = `-- name: CreateExpense :one
INSERT INTO expenses (expense_date, amount_cents, category, notes)
VALUES (?, ?, ?, ?)
RETURNING id
`

type CreateExpenseParams struct {
	ExpenseDate string
	AmountCents int64
	Category    string
	Notes       string
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createExpense, arg.ExpenseDate, arg.AmountCents, arg.Category, arg.Notes)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const deleteExpensesByDate = `-- name: DeleteExpensesByDate :execrows
DELETE FROM expenses WHERE expense_date = ?
`

func (q *Queries) DeleteExpensesByDate(ctx context.Context, expenseDate string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExpensesByDate, expenseDate)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Categories group case-insensitively. With a single MIN aggregate SQLite
// takes the bare category column from the first-inserted row of each group.
const getCategoryTotals = `-- name: GetCategoryTotals :many
SELECT category, SUM(amount_cents) AS total_cents, MIN(id) AS first_id
FROM expenses
WHERE expense_date BETWEEN ? AND ?
GROUP BY category COLLATE NOCASE
ORDER BY first_id
`

type CategoryTotalRow struct {
	Category   string
	TotalCents int64
	FirstID    int64
}

func (q *Queries) GetCategoryTotals(ctx context.Context, startDate, endDate string) ([]CategoryTotalRow, error) {
	rows, err := q.db.QueryContext(ctx, getCategoryTotals, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategoryTotalRow
	for rows.Next() {
		var i CategoryTotalRow
		if err := rows.Scan(&i.Category, &i.TotalCents, &i.FirstID); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getMonthlyTotals = `-- name: GetMonthlyTotals :many
SELECT CAST(strftime('%m', expense_date) AS INTEGER) AS month_num, SUM(amount_cents) AS total_cents
FROM expenses
GROUP BY month_num
ORDER BY month_num
`

type MonthlyTotalRow struct {
	MonthNum   int64
	TotalCents int64
}

func (q *Queries) GetMonthlyTotals(ctx context.Context) ([]MonthlyTotalRow, error) {
	rows, err := q.db.QueryContext(ctx, getMonthlyTotals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MonthlyTotalRow
	for rows.Next() {
		var i MonthlyTotalRow
		if err := rows.Scan(&i.MonthNum, &i.TotalCents); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countExpenses = `-- name: CountExpenses :one
SELECT COUNT(*) FROM expenses
`

func (q *Queries) CountExpenses(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countExpenses)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getDataVersion = `-- name: GetDataVersion :one
SELECT COUNT(*), COALESCE(MAX(id), 0) FROM expenses
`

type DataVersionRow struct {
	Count int64
	MaxID int64
}

func (q *Queries) GetDataVersion(ctx context.Context) (DataVersionRow, error) {
	row := q.db.QueryRowContext(ctx, getDataVersion)
	var i DataVersionRow
	err := row.Scan(&i.Count, &i.MaxID)
	return i, err
}
