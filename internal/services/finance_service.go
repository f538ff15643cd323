package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bilancio/internal/amqp"
	"bilancio/internal/analytics"
	"bilancio/internal/core"
)

// Repository is the persistence surface the services need. Implemented by
// storage.SQLiteRepository.
type Repository interface {
	CreateTransaction(ctx context.Context, t core.Transaction) error
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, ownerID, id string) error
	ListTransactions(ctx context.Context, ownerID string) ([]core.Transaction, error)

	CreateBudget(ctx context.Context, b core.Budget) error
	UpdateBudget(ctx context.Context, b core.Budget) error
	DeleteBudget(ctx context.Context, ownerID, id string) error
	ListBudgets(ctx context.Context, ownerID string) ([]core.Budget, error)

	CreateGoal(ctx context.Context, g core.Goal) error
	UpdateGoal(ctx context.Context, g core.Goal) error
	DeleteGoal(ctx context.Context, ownerID, id string) error
	GetGoal(ctx context.Context, ownerID, id string) (core.Goal, error)
	ListGoals(ctx context.Context, ownerID string) ([]core.Goal, error)
	ListCompletedGoals(ctx context.Context) ([]core.Goal, error)
}

// ErrGoalNotCompleted is returned when a follow-up goal is requested for a
// goal that has not reached its target yet.
var ErrGoalNotCompleted = errors.New("goal is not completed")

// EventPublisher publishes domain events. Implemented by amqp.Client.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *amqp.FinanceEvent) error
}

// FinanceService orchestrates record writes: validate, persist, then publish
// a best-effort change event. A failed publish never fails the request; the
// record is already durable.
type FinanceService struct {
	repo        Repository
	publisher   EventPublisher
	invalidator SnapshotInvalidator
	nowFn       func() time.Time
}

// SnapshotInvalidator drops cached snapshots for an owner after a write.
// Implemented by SnapshotService.
type SnapshotInvalidator interface {
	Invalidate(ownerID string)
}

func NewFinanceService(repo Repository, publisher EventPublisher) *FinanceService {
	return &FinanceService{
		repo:      repo,
		publisher: publisher,
		nowFn:     time.Now,
	}
}

// WithInvalidator registers a snapshot invalidator notified after every
// successful write, keeping in-process dashboard caches coherent without a
// round trip through the message broker.
func (s *FinanceService) WithInvalidator(invalidator SnapshotInvalidator) *FinanceService {
	s.invalidator = invalidator
	return s
}

// CreateTransaction validates and persists a transaction, assigning an ID.
func (s *FinanceService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}
	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.publish(ctx, amqp.EventTransactionChanged, t.OwnerID, t.ID)
	return t, nil
}

func (s *FinanceService) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}
	if err := s.repo.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	s.publish(ctx, amqp.EventTransactionChanged, t.OwnerID, t.ID)
	return nil
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	if err := s.repo.DeleteTransaction(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.publish(ctx, amqp.EventTransactionChanged, ownerID, id)
	return nil
}

// ListTransactions returns an owner's transactions, optionally narrowed by a
// filter predicate.
func (s *FinanceService) ListTransactions(ctx context.Context, ownerID string, p analytics.Predicate) ([]core.Transaction, error) {
	transactions, err := s.repo.ListTransactions(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return analytics.FilterByPredicate(transactions, p), nil
}

func (s *FinanceService) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, fmt.Errorf("validate budget: %w", err)
	}
	if err := s.repo.CreateBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}
	s.publish(ctx, amqp.EventBudgetChanged, b.OwnerID, b.ID)
	return b, nil
}

func (s *FinanceService) UpdateBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("validate budget: %w", err)
	}
	if err := s.repo.UpdateBudget(ctx, b); err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	s.publish(ctx, amqp.EventBudgetChanged, b.OwnerID, b.ID)
	return nil
}

func (s *FinanceService) DeleteBudget(ctx context.Context, ownerID, id string) error {
	if err := s.repo.DeleteBudget(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	s.publish(ctx, amqp.EventBudgetChanged, ownerID, id)
	return nil
}

func (s *FinanceService) ListBudgets(ctx context.Context, ownerID string) ([]core.Budget, error) {
	return s.repo.ListBudgets(ctx, ownerID)
}

func (s *FinanceService) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, fmt.Errorf("validate goal: %w", err)
	}
	if err := s.repo.CreateGoal(ctx, g); err != nil {
		return core.Goal{}, fmt.Errorf("save goal: %w", err)
	}
	s.publish(ctx, amqp.EventGoalChanged, g.OwnerID, g.ID)
	return g, nil
}

func (s *FinanceService) UpdateGoal(ctx context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("validate goal: %w", err)
	}
	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	s.publish(ctx, amqp.EventGoalChanged, g.OwnerID, g.ID)
	return nil
}

func (s *FinanceService) DeleteGoal(ctx context.Context, ownerID, id string) error {
	if err := s.repo.DeleteGoal(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	s.publish(ctx, amqp.EventGoalChanged, ownerID, id)
	return nil
}

func (s *FinanceService) ListGoals(ctx context.Context, ownerID string) ([]core.Goal, error) {
	return s.repo.ListGoals(ctx, ownerID)
}

// AddGoalProgress applies a progress increment. Crossing the target emits a
// completion event on top of the change event.
func (s *FinanceService) AddGoalProgress(ctx context.Context, ownerID, goalID string, amount core.Money) (core.Goal, error) {
	if err := amount.Validate(); err != nil {
		return core.Goal{}, fmt.Errorf("validate amount: %w", err)
	}

	goal, err := s.repo.GetGoal(ctx, ownerID, goalID)
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}

	updated := analytics.AddProgress(goal, amount, s.nowFn())
	if err := s.repo.UpdateGoal(ctx, updated); err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}

	s.publish(ctx, amqp.EventGoalChanged, ownerID, goalID)
	if updated.Completed && !goal.Completed {
		s.publish(ctx, amqp.EventGoalCompleted, ownerID, goalID)
	}
	return updated, nil
}

// RecreateGoal derives a fresh goal from a completed one: same title and
// target, zero progress, deadline one month out. The original is untouched.
func (s *FinanceService) RecreateGoal(ctx context.Context, ownerID, goalID string) (core.Goal, error) {
	goal, err := s.repo.GetGoal(ctx, ownerID, goalID)
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	if !goal.Completed {
		return core.Goal{}, fmt.Errorf("goal %s: %w", goalID, ErrGoalNotCompleted)
	}

	draft := analytics.DeriveNextGoal(goal)
	next := core.Goal{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Title:         draft.Title,
		TargetAmount:  draft.TargetAmount,
		CurrentAmount: draft.CurrentAmount,
		Deadline:      draft.Deadline,
	}
	if err := s.repo.CreateGoal(ctx, next); err != nil {
		return core.Goal{}, fmt.Errorf("save goal: %w", err)
	}
	s.publish(ctx, amqp.EventGoalChanged, ownerID, next.ID)
	return next, nil
}

func (s *FinanceService) publish(ctx context.Context, kind, ownerID, entityID string) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ownerID)
	}
	if s.publisher == nil {
		slog.DebugContext(ctx, "Event publisher not available, skipping event", "kind", kind)
		return
	}
	if err := s.publisher.PublishEvent(ctx, amqp.NewFinanceEvent(kind, ownerID, entityID)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event",
			"kind", kind, "owner_id", ownerID, "entity_id", entityID, "error", err)
		// Don't fail the request - the record is already persisted
	}
}
