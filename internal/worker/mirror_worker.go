package worker

import (
	"context"
	"fmt"
	"log/slog"

	"artha/internal/amqp"
	"artha/internal/core"
	"artha/internal/sheets"
	"artha/internal/store"
)

// Consumer delivers day-replaced notifications until ctx is cancelled.
type Consumer interface {
	ConsumeDayReplaced(ctx context.Context, handler func(context.Context, *amqp.DayReplacedMessage) error) error
}

// MirrorWorker copies days from the record store into a spreadsheet mirror
// whenever a day is replaced.
type MirrorWorker struct {
	reader store.DayReader
	mirror sheets.DayMirror
}

func NewMirrorWorker(reader store.DayReader, mirror sheets.DayMirror) *MirrorWorker {
	return &MirrorWorker{reader: reader, mirror: mirror}
}

// HandleDayReplaced re-reads the day from the store so the mirror always
// receives the latest rows, even when messages arrive out of order.
func (w *MirrorWorker) HandleDayReplaced(ctx context.Context, msg *amqp.DayReplacedMessage) error {
	date, err := msg.ParsedDate()
	if err != nil {
		// Malformed dates can never succeed; acknowledge and move on.
		slog.WarnContext(ctx, "Dropping day message with invalid date",
			"message_id", msg.ID,
			"date", msg.Date,
			"error", err)
		return nil
	}

	slog.InfoContext(ctx, "Processing day message",
		"message_id", msg.ID,
		"date", msg.Date,
		"count", msg.Count)

	if w.mirror == nil {
		slog.WarnContext(ctx, "No day mirror configured, skipping",
			"message_id", msg.ID,
			"date", msg.Date)
		return nil
	}

	return w.MirrorDay(ctx, date)
}

// MirrorDay pushes the stored rows of one day to the mirror.
func (w *MirrorWorker) MirrorDay(ctx context.Context, date core.Date) error {
	rows, err := w.reader.RowsForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("read day %s: %w", date, err)
	}
	if err := w.mirror.ReplaceDay(ctx, date, rows); err != nil {
		slog.ErrorContext(ctx, "Failed to mirror day",
			"date", date.String(),
			"rows", len(rows),
			"error", err)
		return fmt.Errorf("mirror day %s: %w", date, err)
	}
	slog.InfoContext(ctx, "Successfully mirrored day",
		"date", date.String(),
		"rows", len(rows))
	return nil
}

// Resync mirrors every day in [start, end]. Failures are logged and counted
// so one bad day does not stop the pass. Mirrors that can read a day back
// are only rewritten where they differ from the store.
func (w *MirrorWorker) Resync(ctx context.Context, start, end core.Date) (int, error) {
	if err := core.ValidateRange(start, end); err != nil {
		return 0, err
	}
	if w.mirror == nil {
		return 0, nil
	}
	lister, _ := w.mirror.(sheets.DayLister)
	failed, unchanged := 0, 0
	for d := start; !d.After(end.Time); d = (core.Date{Time: d.AddDate(0, 0, 1)}) {
		if err := ctx.Err(); err != nil {
			return failed, err
		}
		if lister != nil && w.inSync(ctx, lister, d) {
			unchanged++
			continue
		}
		if err := w.MirrorDay(ctx, d); err != nil {
			failed++
		}
	}
	slog.InfoContext(ctx, "Resync finished",
		"start_date", start.String(),
		"end_date", end.String(),
		"unchanged", unchanged,
		"failed", failed)
	return failed, nil
}

// inSync reports whether the mirror already holds exactly the stored rows of
// date. Any read error counts as out of sync.
func (w *MirrorWorker) inSync(ctx context.Context, lister sheets.DayLister, date core.Date) bool {
	stored, err := w.reader.RowsForDate(ctx, date)
	if err != nil {
		return false
	}
	mirrored, err := lister.ListDay(ctx, date)
	if err != nil || len(mirrored) != len(stored) {
		return false
	}
	for i := range stored {
		a, b := stored[i], mirrored[i]
		if !a.Amount.Equal(b.Amount) || a.Category != b.Category || a.Notes != b.Notes {
			return false
		}
	}
	return true
}

// Run blocks consuming messages until ctx is cancelled.
func (w *MirrorWorker) Run(ctx context.Context, consumer Consumer) error {
	slog.InfoContext(ctx, "Mirror worker started")
	err := consumer.ConsumeDayReplaced(ctx, w.HandleDayReplaced)
	if ctx.Err() != nil {
		slog.InfoContext(ctx, "Mirror worker stopped")
		return nil
	}
	return err
}
