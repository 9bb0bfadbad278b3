package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"artha/internal/config"
	"artha/internal/storage"
)

func newMigrateCmd(load func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [version]",
		Short: "Run database migrations",
		Long: `Run database migrations on the SQLite store.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  artha migrate      # Run all pending migrations
  artha migrate 0    # Rollback all migrations`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			LoadEnvFile()
			cfg := load()
			if cfg.DataBackend != "sqlite" {
				return fmt.Errorf("migrate requires DATA_BACKEND=sqlite, got %q", cfg.DataBackend)
			}
			path := cfg.SQLiteDBPath
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("create db directory: %w", err)
			}

			current, dirty, err := storage.SchemaVersion(path)
			if err != nil {
				return err
			}
			if dirty {
				return fmt.Errorf("database is in dirty state at version %d, manual intervention required", current)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Current version: %d\n", current)

			if len(args) == 0 {
				err = storage.RunMigrations(path)
			} else {
				target, perr := strconv.ParseUint(args[0], 10, 32)
				if perr != nil {
					return fmt.Errorf("invalid version number: %s", args[0])
				}
				err = storage.MigrateTo(path, uint(target))
			}
			if err != nil {
				return err
			}

			after, _, err := storage.SchemaVersion(path)
			if err != nil {
				return err
			}
			if after == current {
				fmt.Fprintln(out, "No migrations to run")
			} else {
				fmt.Fprintf(out, "Migrated to version %d\n", after)
			}
			return nil
		},
	}
}
