package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"artha/internal/core"
)

func newShowCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "show <date>",
		Short: "List the expenses recorded on a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := core.ParseDate(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, open, func(ctx context.Context, app *App) error {
				rows, err := app.Expenses.ExpensesForDate(ctx, date)
				if err != nil {
					return err
				}
				if len(rows) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No expenses on %s\n", date)
					return nil
				}
				w := newTable(cmd.OutOrStdout())
				fmt.Fprintln(w, "AMOUNT\tCATEGORY\tNOTES")
				for _, e := range rows {
					fmt.Fprintf(w, "%s\t%s\t%s\n", money(e.Amount), e.Category, e.Notes)
				}
				return w.Flush()
			})
		},
	}
}

func newAddCmd(open Opener) *cobra.Command {
	var amount, category, notes string
	cmd := &cobra.Command{
		Use:   "add <date>",
		Short: "Record one expense on a day",
		Long: `Append an expense to a day. The day's rows are rewritten as a whole,
exactly like the HTTP API does.

Examples:
  artha add 2024-08-01 --amount 12.50 --category Food --notes lunch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := core.ParseDate(args[0])
			if err != nil {
				return err
			}
			value, err := core.ParseAmount(amount)
			if err != nil {
				return fmt.Errorf("--amount: %w", err)
			}
			e := core.Expense{Date: date, Amount: value, Category: category, Notes: notes}
			if err := e.Validate(); err != nil {
				return err
			}

			return withApp(cmd, open, func(ctx context.Context, app *App) error {
				rows, err := app.Expenses.ExpensesForDate(ctx, date)
				if err != nil {
					return err
				}
				rows = append(rows, e)
				if err := app.Expenses.ReplaceDay(ctx, date, rows); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s in %s on %s (%d expenses that day)\n",
					money(value), category, date, len(rows))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "Amount spent")
	cmd.Flags().StringVar(&category, "category", "", "Category name")
	cmd.Flags().StringVar(&notes, "notes", "", "Optional notes")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}
