// Package worker mirrors stored expenses to the spreadsheet backup. It
// consumes queue messages for the fast path and sweeps the store for
// anything the queue lost.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"outlay/internal/amqp"
	"outlay/internal/core"
	"outlay/internal/sheets"
	"outlay/internal/store"
)

// MirrorStore is the slice of the repository the worker needs.
type MirrorStore interface {
	Get(ctx context.Context, id string) (core.Expense, error)
	PendingMirror(ctx context.Context, limit int) ([]core.Expense, error)
	MarkMirrored(ctx context.Context, id string) error
	MarkMirrorError(ctx context.Context, id string) error
}

type MirrorWorker struct {
	store     MirrorStore
	appender  sheets.RowAppender
	batchSize int
}

func NewMirrorWorker(store MirrorStore, appender sheets.RowAppender, batchSize int) *MirrorWorker {
	return &MirrorWorker{
		store:     store,
		appender:  appender,
		batchSize: batchSize,
	}
}

// HandleMirrorMessage processes a single mirror request from the queue. An
// expense deleted before the message arrives is dropped, not retried.
func (w *MirrorWorker) HandleMirrorMessage(ctx context.Context, msg *amqp.ExpenseMirrorMessage) error {
	expense, err := w.store.Get(ctx, msg.ID)
	if errors.Is(err, store.ErrNotFound) {
		slog.InfoContext(ctx, "Expense gone before mirror, skipping", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get expense from store: %w", err)
	}

	return w.mirror(ctx, expense)
}

// ProcessPending mirrors expenses the queue never delivered. Called
// periodically and once at startup.
func (w *MirrorWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.PendingMirror(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending expenses: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending expenses", "count", len(pending))

	for _, e := range pending {
		if err := w.mirror(ctx, e); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror pending expense", "id", e.ID, "error", err)
		}
	}
	return nil
}

// RunSweep blocks, running ProcessPending on the given interval until the
// context is cancelled.
func (w *MirrorWorker) RunSweep(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Pending sweep failed", "error", err)
			}
		}
	}
}

func (w *MirrorWorker) mirror(ctx context.Context, e core.Expense) error {
	ref, err := w.appender.Append(ctx, e)
	if err != nil {
		if markErr := w.store.MarkMirrorError(ctx, e.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark mirror error", "id", e.ID, "error", markErr)
		}
		return fmt.Errorf("append to backup sheet: %w", err)
	}

	if err := w.store.MarkMirrored(ctx, e.ID); err != nil {
		// The append went through; losing the mark only means one extra
		// duplicate row on the next sweep.
		slog.ErrorContext(ctx, "Failed to mark as mirrored", "id", e.ID, "error", err)
	}

	slog.InfoContext(ctx, "Mirrored expense",
		"id", e.ID,
		"sheet_ref", ref,
		"item", e.Item,
		"amount", e.Amount)

	return nil
}
