package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"artha/internal/config"
)

// NewRootCmd assembles the command tree; open is called by commands that
// need the record store.
func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:   "artha",
		Short: "Expense analytics from the command line",
		Long: `artha records daily expenses and analyses them.

Break spending down by category or month, plan savings towards a target,
and compute the Lakshmi financial health score for any date range.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newBreakdownCmd(open),
		newMonthlyCmd(open),
		newPlanCmd(open),
		newScoreCmd(open),
		newAddCmd(open),
		newShowCmd(open),
		newMigrateCmd(config.Load),
		newResyncCmd(DefaultMirrorOpener),
	)
	return root
}

func Execute() {
	if err := NewRootCmd(DefaultOpener).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withApp opens the App for one command run and closes it afterwards.
func withApp(cmd *cobra.Command, open Opener, fn func(ctx context.Context, app *App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(ctx, app)
}
