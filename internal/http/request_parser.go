package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bilancio/internal/analytics"
	"bilancio/internal/core"
)

// ownerHeader carries the caller's collection identifier. Authentication is
// handled upstream; this service only partitions data by owner.
const ownerHeader = "X-Owner-ID"

var errMissingOwner = errors.New("missing " + ownerHeader + " header")

func ownerID(r *http.Request) (string, error) {
	owner := strings.TrimSpace(r.Header.Get(ownerHeader))
	if owner == "" {
		return "", errMissingOwner
	}
	return owner, nil
}

type transactionRequest struct {
	Amount        string `json:"amount"` // decimal, e.g. "12.34"
	Type          string `json:"type"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	Date          string `json:"date"` // YYYY-MM-DD
	PaymentMethod string `json:"payment_method"`
	Recurring     bool   `json:"recurring"`
}

type budgetRequest struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Month    string `json:"month"` // YYYY-MM
}

type goalRequest struct {
	Title        string `json:"title"`
	TargetAmount string `json:"target_amount"`
	Deadline     string `json:"deadline"` // YYYY-MM-DD
}

type progressRequest struct {
	Amount string `json:"amount"`
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (req transactionRequest) toTransaction(ownerID, id string) (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount: %w", err)
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("date: %w", err)
	}
	return core.Transaction{
		ID:            id,
		OwnerID:       ownerID,
		Amount:        core.Money{Cents: cents},
		Type:          core.TransactionType(strings.ToLower(strings.TrimSpace(req.Type))),
		Category:      sanitizeInput(req.Category),
		Description:   sanitizeInput(req.Description),
		Date:          date,
		PaymentMethod: core.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
		Recurring:     req.Recurring,
	}, nil
}

func (req budgetRequest) toBudget(ownerID, id string) (core.Budget, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Budget{}, fmt.Errorf("amount: %w", err)
	}
	return core.Budget{
		ID:       id,
		OwnerID:  ownerID,
		Category: sanitizeInput(req.Category),
		Amount:   core.Money{Cents: cents},
		Month:    strings.TrimSpace(req.Month),
	}, nil
}

func (req goalRequest) toGoal(ownerID, id string) (core.Goal, error) {
	cents, err := core.ParseDecimalToCents(req.TargetAmount)
	if err != nil {
		return core.Goal{}, fmt.Errorf("target_amount: %w", err)
	}
	deadline, err := core.ParseDate(req.Deadline)
	if err != nil {
		return core.Goal{}, fmt.Errorf("deadline: %w", err)
	}
	return core.Goal{
		ID:           id,
		OwnerID:      ownerID,
		Title:        sanitizeInput(req.Title),
		TargetAmount: core.Money{Cents: cents},
		Deadline:     deadline,
	}, nil
}

// parseGranularity reads the granularity query parameter, defaulting to month.
func parseGranularity(r *http.Request) (analytics.Granularity, error) {
	v := strings.TrimSpace(r.URL.Query().Get("granularity"))
	if v == "" {
		return analytics.GranularityMonth, nil
	}
	g := analytics.Granularity(strings.ToLower(v))
	if !g.Valid() {
		return "", fmt.Errorf("unknown granularity %q", v)
	}
	return g, nil
}

// parseReference reads the date query parameter (YYYY-MM-DD, default today)
// and applies an optional step=prev|next shift of one granularity unit.
func parseReference(r *http.Request, g analytics.Granularity, now time.Time) (time.Time, error) {
	reference := now
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return time.Time{}, fmt.Errorf("date: %w", err)
		}
		reference = d.Time
	}

	switch step := strings.TrimSpace(r.URL.Query().Get("step")); step {
	case "":
	case string(analytics.StepPrev), string(analytics.StepNext):
		reference = analytics.StepWindow(reference, g, analytics.StepDirection(step))
	default:
		return time.Time{}, fmt.Errorf("unknown step %q", step)
	}
	return reference, nil
}

// parsePredicate reads the optional transaction list filters.
func parsePredicate(r *http.Request) (analytics.Predicate, error) {
	q := r.URL.Query()
	p := analytics.Predicate{
		Category:   strings.TrimSpace(q.Get("category")),
		SearchText: strings.TrimSpace(q.Get("q")),
	}
	if v := strings.TrimSpace(q.Get("type")); v != "" {
		t := core.TransactionType(strings.ToLower(v))
		if err := t.Validate(); err != nil {
			return analytics.Predicate{}, fmt.Errorf("type: %w", err)
		}
		p.Type = t
	}
	return p, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
