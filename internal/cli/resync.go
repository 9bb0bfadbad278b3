package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"artha/internal/backend"
	"artha/internal/config"
	"artha/internal/log"
	"artha/internal/sheets"
	gsheet "artha/internal/sheets/google"
	"artha/internal/store"
	"artha/internal/worker"
)

// Mirror pairs the record store with the spreadsheet it is copied into.
type Mirror struct {
	Reader store.DayReader
	Sheet  sheets.DayMirror
	Close  func() error
}

// MirrorOpener builds a Mirror when the resync command runs.
type MirrorOpener func(ctx context.Context) (*Mirror, error)

// OpenSheet connects to the configured spreadsheet.
func OpenSheet(ctx context.Context, cfg *config.Config) (*gsheet.Client, error) {
	if !cfg.MirrorEnabled() {
		return nil, errors.New("no spreadsheet configured (set GOOGLE_SPREADSHEET_ID)")
	}
	return gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
}

// DefaultMirrorOpener opens the configured store and spreadsheet.
func DefaultMirrorOpener(ctx context.Context) (*Mirror, error) {
	LoadEnvFile()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := SetupLogger(os.Stderr, "info").WithComponent(log.ComponentSheets)

	sheet, err := OpenSheet(ctx, cfg)
	if err != nil {
		return nil, err
	}
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DataBackend, err)
	}
	return &Mirror{Reader: res.Store, Sheet: sheet, Close: res.Close}, nil
}

func newResyncCmd(open MirrorOpener) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "resync",
		Short: "Copy every day in a range to the spreadsheet mirror",
		Long: `Replace each day of [--start, --end] in the Google Sheet with the rows
currently in the record store. Use it to repair the mirror after the
worker was down or messages were lost.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, e, err := parseRange(start, end)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			m, err := open(ctx)
			if err != nil {
				return err
			}
			if m.Close != nil {
				defer func() { _ = m.Close() }()
			}

			failed, err := worker.NewMirrorWorker(m.Reader, m.Sheet).Resync(ctx, s, e)
			if err != nil {
				return err
			}
			days := s.DaysUntil(e) + 1
			fmt.Fprintf(cmd.OutOrStdout(), "Mirrored %d of %d days\n", days-failed, days)
			if failed > 0 {
				return fmt.Errorf("%d days failed to mirror", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last day (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
