package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"artha/internal/core"
)

func newBreakdownCmd(open Opener) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Show spending per category for a date range",
		Long: `Show each category's total and share of spending between two dates
(inclusive).

Examples:
  artha breakdown --start 2024-08-01 --end 2024-08-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, e, err := parseRange(start, end)
			if err != nil {
				return err
			}
			return withApp(cmd, open, func(ctx context.Context, app *App) error {
				b, err := app.Analytics.GetBreakdown(ctx, s, e)
				if errors.Is(err, core.ErrEmptyData) {
					fmt.Fprintf(cmd.OutOrStdout(), "No expenses between %s and %s\n", s, e)
					return nil
				}
				if err != nil {
					return err
				}

				w := newTable(cmd.OutOrStdout())
				fmt.Fprintln(w, "CATEGORY\tTOTAL\tSHARE")
				for _, sh := range b.Shares {
					fmt.Fprintf(w, "%s\t%s\t%s%%\n", sh.Category, money(sh.Total), sh.Percentage.StringFixed(2))
				}
				fmt.Fprintf(w, "TOTAL\t%s\t\n", money(b.Total()))
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "First day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day of the range (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newMonthlyCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "monthly",
		Short: "Show total spending per calendar month across all years",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, app *App) error {
				months, err := app.Analytics.GetMonthlyBreakdown(ctx)
				if errors.Is(err, core.ErrEmptyData) {
					fmt.Fprintln(cmd.OutOrStdout(), "No expenses recorded")
					return nil
				}
				if err != nil {
					return err
				}

				w := newTable(cmd.OutOrStdout())
				fmt.Fprintln(w, "MONTH\tTOTAL")
				for _, m := range months {
					fmt.Fprintf(w, "%s\t%s\n", m.MonthLabel, money(m.Total))
				}
				return w.Flush()
			})
		},
	}
}

func newPlanCmd(open Opener) *cobra.Command {
	var start, end, target, period string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Suggest where to cut spending to reach a savings target",
		Long: `Pick the largest discretionary category in the range and spread the
target over the weeks or months until the end date.

Examples:
  artha plan --target 500 --start 2024-08-01 --end 2024-10-31 --period month`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, e, err := parseRange(start, end)
			if err != nil {
				return err
			}
			amount, err := core.ParseAmount(target)
			if err != nil {
				return fmt.Errorf("--target: %w", err)
			}
			p, err := core.ParsePeriod(period)
			if err != nil {
				return err
			}
			req := core.SavingsRequest{Target: amount, StartDate: s, EndDate: e, Period: p}

			return withApp(cmd, open, func(ctx context.Context, app *App) error {
				advice, err := app.Analytics.PlanSavings(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Save %s per %s from %s for %d %ss\n",
					money(advice.SavePerPeriod), advice.Period, advice.Category, advice.NumPeriods, advice.Period)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "Amount to save")
	cmd.Flags().StringVar(&start, "start", "", "First day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&period, "period", string(core.PeriodMonth), "Savings period: week or month")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newScoreCmd(open Opener) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the Lakshmi financial health score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, e, err := parseRange(start, end)
			if err != nil {
				return err
			}
			return withApp(cmd, open, func(ctx context.Context, app *App) error {
				in, err := app.Analytics.Insights(ctx, s, e)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Lakshmi score: %d (%s)\n", in.Score.Score, in.Score.Grade)
				fmt.Fprintln(out, in.Score.Insight)

				if len(in.Categories) > 0 {
					fmt.Fprintln(out)
					w := newTable(out)
					fmt.Fprintln(w, "CATEGORY\tTOTAL\tSHARE\tESSENTIAL")
					for _, c := range in.Categories {
						essential := ""
						if c.Mandatory {
							essential = "yes"
						}
						fmt.Fprintf(w, "%s\t%s\t%s%%\t%s\n", c.Category, money(c.Total), c.Percentage.StringFixed(2), essential)
					}
					if err := w.Flush(); err != nil {
						return err
					}
				}

				fmt.Fprintln(out)
				fmt.Fprintln(out, in.Wisdom.Sanskrit)
				fmt.Fprintln(out, in.Wisdom.Transliteration)
				fmt.Fprintf(out, "%q\n  - %s\n", in.Wisdom.Translation, in.Wisdom.Source)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "First day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day of the range (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
