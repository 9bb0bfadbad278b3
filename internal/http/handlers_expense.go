package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"artha/internal/core"
	"artha/internal/log"
)

type expenseDTO struct {
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Notes    string  `json:"notes"`
}

// expenseInput accepts amount as a JSON number or a numeric string.
type expenseInput struct {
	Amount   *decimal.Decimal `json:"amount"`
	Category string           `json:"category"`
	Notes    string           `json:"notes"`
}

func (in expenseInput) toExpense() (core.Expense, error) {
	if in.Amount == nil {
		return core.Expense{}, core.ErrInvalidAmount
	}
	return core.Expense{
		Amount:   in.Amount.Round(core.CentsPlaces),
		Category: sanitizeInput(in.Category),
		Notes:    sanitizeInput(in.Notes),
	}, nil
}

func (s *Server) handleGetExpenses(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r)
	if err != nil {
		writeError(w, r, log.OpRowsForDate, err)
		return
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()

	rows, err := s.expenses.ExpensesForDate(ctx, date)
	if err != nil {
		writeError(w, r, log.OpRowsForDate, err)
		return
	}

	out := make([]expenseDTO, 0, len(rows))
	for _, e := range rows {
		out = append(out, expenseDTO{Amount: money(e.Amount), Category: e.Category, Notes: e.Notes})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReplaceExpenses(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r)
	if err != nil {
		writeError(w, r, log.OpReplaceDay, err)
		return
	}

	var body []expenseInput
	if err := decodeJSON(w, r, s.maxBodyBytes, &body); err != nil {
		writeError(w, r, log.OpReplaceDay, err)
		return
	}

	expenses := make([]core.Expense, 0, len(body))
	for _, in := range body {
		e, err := in.toExpense()
		if err != nil {
			writeError(w, r, log.OpReplaceDay, err)
			return
		}
		expenses = append(expenses, e)
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()

	if err := s.expenses.ReplaceDay(ctx, date, expenses); err != nil {
		writeError(w, r, log.OpReplaceDay, err)
		return
	}

	log.FromContext(ctx).InfoContext(ctx, "Expenses replaced",
		log.NewFields().WithDay(date.String(), len(expenses)).WithOperation(log.OpReplaceDay).ToSlice()...)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Expense updated successfully"})
}
