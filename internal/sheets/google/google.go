package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"artha/internal/core"
	ports "artha/internal/sheets"
)

// Client mirrors expenses into one sheet of a Google spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string

	mu      sync.Mutex
	sheetID *int64
}

var (
	_ ports.DayMirror = (*Client)(nil)
	_ ports.DayLister = (*Client)(nil)
)

type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// New creates a Sheets client. Extra client options replace the service
// account credentials entirely (used to point the client at a fake endpoint).
func New(ctx context.Context, opts Options, extra ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if strings.TrimSpace(opts.SheetName) == "" {
		opts.SheetName = "Expenses"
	}

	var (
		svc *gsheet.Service
		err error
	)
	if len(extra) > 0 {
		svc, err = gsheet.NewService(ctx, extra...)
	} else {
		svc, err = newSheetsService(ctx, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: strings.TrimSpace(opts.SpreadsheetID),
		sheetName:     strings.TrimSpace(opts.SheetName),
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Falls back to GOOGLE_APPLICATION_CREDENTIALS when neither JSON nor file is set.
func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(opts.CredentialsJSON)
	serviceAccountFile := strings.TrimSpace(opts.CredentialsFile)
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) readAll(ctx context.Context) ([][]any, error) {
	rng := a1Range(c.sheetName, columns)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

// ListDay implements sheets.DayLister
func (c *Client) ListDay(ctx context.Context, date core.Date) ([]core.Expense, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	values, err := c.readAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.Expense
	for _, idx := range rowsForDate(values, date) {
		if e, ok := parseRow(values[idx]); ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// ReplaceDay implements sheets.DayMirror: rows dated date are deleted, then
// expenses are appended at the end of the sheet.
func (c *Client) ReplaceDay(ctx context.Context, date core.Date, expenses []core.Expense) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	values, err := c.readAll(ctx)
	if err != nil {
		return err
	}

	if stale := rowsForDate(values, date); len(stale) > 0 {
		if err := c.deleteRows(ctx, stale); err != nil {
			return err
		}
	}

	rows := make([][]any, 0, len(expenses)+1)
	if len(values) == 0 {
		rows = append(rows, headerRow)
	}
	for _, e := range expenses {
		rows = append(rows, expenseToRow(e))
	}
	if len(rows) == 0 {
		return nil
	}

	rng := a1Range(c.sheetName, columns)
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", rng, err)
	}

	slog.InfoContext(ctx, "Day mirrored to Google Sheets",
		"date", date.String(),
		"rows", len(expenses),
		"sheet", c.sheetName)
	return nil
}

// deleteRows removes rows bottom-up so earlier indexes stay valid.
func (c *Client) deleteRows(ctx context.Context, idx []int64) error {
	sheetID, err := c.lookupSheetID(ctx)
	if err != nil {
		return err
	}
	sorted := append([]int64(nil), idx...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })

	reqs := make([]*gsheet.Request, 0, len(sorted))
	for _, i := range sorted {
		reqs = append(reqs, &gsheet.Request{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:         sheetID,
					Dimension:       "ROWS",
					StartIndex:      i,
					EndIndex:        i + 1,
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		})
	}
	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{Requests: reqs}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete %d rows from %s: %w", len(sorted), c.sheetName, err)
	}
	return nil
}

func (c *Client) lookupSheetID(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sheetID != nil {
		return *c.sheetID, nil
	}
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == c.sheetName {
			id := sh.Properties.SheetId
			c.sheetID = &id
			return id, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet", c.sheetName)
}
