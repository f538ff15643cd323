package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bilancio/internal/analytics"
	"bilancio/internal/core"
	applog "bilancio/internal/log"
	"bilancio/internal/services"
	"bilancio/internal/storage"
)

// FinanceAPI is the write/read surface for finance records.
// Implemented by services.FinanceService.
type FinanceAPI interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, ownerID, id string) error
	ListTransactions(ctx context.Context, ownerID string, p analytics.Predicate) ([]core.Transaction, error)

	CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	UpdateBudget(ctx context.Context, b core.Budget) error
	DeleteBudget(ctx context.Context, ownerID, id string) error
	ListBudgets(ctx context.Context, ownerID string) ([]core.Budget, error)

	CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	UpdateGoal(ctx context.Context, g core.Goal) error
	DeleteGoal(ctx context.Context, ownerID, id string) error
	ListGoals(ctx context.Context, ownerID string) ([]core.Goal, error)
	AddGoalProgress(ctx context.Context, ownerID, goalID string, amount core.Money) (core.Goal, error)
	RecreateGoal(ctx context.Context, ownerID, goalID string) (core.Goal, error)
}

// SnapshotAPI serves memoized dashboard snapshots.
// Implemented by services.SnapshotService.
type SnapshotAPI interface {
	Dashboard(ctx context.Context, ownerID string, g analytics.Granularity, reference time.Time) (analytics.Snapshot, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", applog.NewFields().WithError(err).Args()...)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondServiceError maps service errors to HTTP statuses. Validation errors
// surface their message; anything unexpected becomes an opaque 500.
func respondServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrGoalNotCompleted):
		respondError(w, http.StatusConflict, err.Error())
	case isValidationError(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(ctx, "Request failed", applog.NewFields().WithError(err).Args()...)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidDate, core.ErrInvalidAmount, core.ErrInvalidType,
		core.ErrInvalidPaymentMethod, core.ErrEmptyDescription,
		core.ErrEmptyCategory, core.ErrEmptyTitle, core.ErrInvalidMonthKey,
		core.ErrDescriptionTooLong, core.ErrTitleTooLong,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
