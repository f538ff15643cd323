package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/analytics"
)

// ArchiveProcessor deletes completed goals that have aged past the archival
// window. The eligibility rule itself lives in the analytics package; this
// processor only drives the deletes.
type ArchiveProcessor struct {
	repo      Repository
	publisher EventPublisher
	nowFn     func() time.Time
}

func NewArchiveProcessor(repo Repository, publisher EventPublisher) *ArchiveProcessor {
	return &ArchiveProcessor{
		repo:      repo,
		publisher: publisher,
		nowFn:     time.Now,
	}
}

// Sweep deletes every archivable goal and returns how many were removed.
// Individual delete failures are logged and skipped so one bad row cannot
// stall the sweep.
func (p *ArchiveProcessor) Sweep(ctx context.Context) (int, error) {
	goals, err := p.repo.ListCompletedGoals(ctx)
	if err != nil {
		return 0, fmt.Errorf("list completed goals: %w", err)
	}

	now := p.nowFn()
	archived := 0
	for _, g := range goals {
		if !analytics.IsArchivable(g, now) {
			continue
		}
		if err := p.repo.DeleteGoal(ctx, g.OwnerID, g.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to archive goal",
				"goal_id", g.ID, "owner_id", g.OwnerID, "error", err)
			continue
		}
		archived++
		slog.InfoContext(ctx, "Archived completed goal",
			"goal_id", g.ID, "owner_id", g.OwnerID, "completed_at", g.CompletedAt)
		if p.publisher != nil {
			if err := p.publisher.PublishEvent(ctx, amqp.NewFinanceEvent(amqp.EventGoalArchived, g.OwnerID, g.ID)); err != nil {
				slog.ErrorContext(ctx, "Failed to publish archive event",
					"goal_id", g.ID, "error", err)
			}
		}
	}
	return archived, nil
}
