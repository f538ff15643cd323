package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/services"
)

// SnapshotInvalidator drops memoized dashboard snapshots for an owner.
// Implemented by services.SnapshotService.
type SnapshotInvalidator interface {
	Invalidate(ownerID string)
}

// EventWorker reacts to finance change events: every event invalidates the
// owner's cached snapshots so the next dashboard read recomputes from storage.
// Goal completions additionally trigger an archival sweep, which catches any
// goal that aged past the archival window since the last tick.
type EventWorker struct {
	invalidator SnapshotInvalidator
	archiver    *services.ArchiveProcessor
}

func NewEventWorker(invalidator SnapshotInvalidator, archiver *services.ArchiveProcessor) *EventWorker {
	return &EventWorker{invalidator: invalidator, archiver: archiver}
}

// HandleEvent processes a single finance event from AMQP.
func (w *EventWorker) HandleEvent(ctx context.Context, event *amqp.FinanceEvent) error {
	slog.InfoContext(ctx, "Processing finance event",
		"kind", event.Kind,
		"owner_id", event.OwnerID,
		"entity_id", event.EntityID)

	if event.OwnerID == "" {
		return fmt.Errorf("event %s has no owner", event.Kind)
	}

	w.invalidator.Invalidate(event.OwnerID)

	if event.Kind == amqp.EventGoalCompleted && w.archiver != nil {
		if _, err := w.archiver.Sweep(ctx); err != nil {
			slog.ErrorContext(ctx, "Sweep after goal completion failed", "error", err)
		}
	}
	return nil
}

// RunArchiveSweeps runs the goal archival sweep on a fixed interval until the
// context is cancelled. The first sweep runs immediately so a restarted worker
// catches up without waiting a full interval.
func RunArchiveSweeps(ctx context.Context, processor *services.ArchiveProcessor, interval time.Duration) error {
	sweep := func() {
		archived, err := processor.Sweep(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Archive sweep failed", "error", err)
			return
		}
		if archived > 0 {
			slog.InfoContext(ctx, "Archive sweep completed", "archived", archived)
		}
	}

	sweep()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sweep()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
