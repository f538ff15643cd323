package analytics

import (
	"math"
	"time"

	"bilancio/internal/core"
)

// GoalArchiveAfter is how long a completed goal is kept before it becomes
// eligible for automatic deletion.
const GoalArchiveAfter = 30 * 24 * time.Hour

// NextGoalDraft is the template for recreating a completed goal one month
// later. It is a brand-new entity draft, never a mutation of the original.
type NextGoalDraft struct {
	Title         string
	TargetAmount  core.Money
	CurrentAmount core.Money
	Deadline      core.Date
}

// Progress returns percent-complete of a goal. The raw value may exceed 100
// when the goal is overfunded; callers decide whether to clamp for display.
func Progress(goal core.Goal) float64 {
	if goal.TargetAmount.Cents <= 0 {
		return 0
	}
	return float64(goal.CurrentAmount.Cents) / float64(goal.TargetAmount.Cents) * 100
}

// DaysRemaining returns the whole days until the goal deadline, rounded up.
// Zero means due today; negative values denote overdue.
func DaysRemaining(goal core.Goal, now time.Time) int {
	diff := goal.Deadline.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// AddProgress returns a copy of the goal with the amount added. Crossing the
// target marks the goal completed and stamps CompletedAt exactly once; adding
// to an already-completed goal never resets the stamp.
func AddProgress(goal core.Goal, amount core.Money, now time.Time) core.Goal {
	updated := goal
	updated.CurrentAmount.Cents += amount.Cents
	if !updated.Completed && updated.CurrentAmount.Cents >= updated.TargetAmount.Cents {
		updated.Completed = true
		updated.CompletedAt = now
	}
	return updated
}

// IsArchivable reports whether a completed goal has aged past the archival
// window and may be deleted. Deletion itself is the persistence layer's job.
func IsArchivable(goal core.Goal, now time.Time) bool {
	if !goal.Completed || goal.CompletedAt.IsZero() {
		return false
	}
	return now.Sub(goal.CompletedAt) > GoalArchiveAfter
}

// DeriveNextGoal produces a fresh draft with the same title and target, zero
// progress, and the deadline moved one month out. The day of month is clamped
// to the last valid day of the resulting month, so a Jan 31 deadline yields
// Feb 28 (or 29), never a roll into March.
func DeriveNextGoal(goal core.Goal) NextGoalDraft {
	year, month, day := goal.Deadline.Date()
	lastDay := time.Date(year, month+2, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		day = lastDay
	}
	return NextGoalDraft{
		Title:        goal.Title,
		TargetAmount: goal.TargetAmount,
		Deadline:     core.NewDate(year, int(month)+1, day),
	}
}
