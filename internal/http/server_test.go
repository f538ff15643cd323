package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bilancio/internal/analytics"
	"bilancio/internal/core"
	"bilancio/internal/storage"
)

// fakeFinance implements FinanceAPI with canned data.
type fakeFinance struct {
	transactions []core.Transaction
	created      []core.Transaction
	goals        map[string]core.Goal
}

func (f *fakeFinance) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t.ID = "tx-1"
	f.created = append(f.created, t)
	return t, nil
}

func (f *fakeFinance) UpdateTransaction(_ context.Context, t core.Transaction) error {
	return t.Validate()
}

func (f *fakeFinance) DeleteTransaction(_ context.Context, _, id string) error {
	if id == "missing" {
		return storage.ErrNotFound
	}
	return nil
}

func (f *fakeFinance) ListTransactions(_ context.Context, _ string, p analytics.Predicate) ([]core.Transaction, error) {
	return analytics.FilterByPredicate(f.transactions, p), nil
}

func (f *fakeFinance) CreateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	b.ID = "budget-1"
	return b, nil
}

func (f *fakeFinance) UpdateBudget(_ context.Context, b core.Budget) error { return b.Validate() }
func (f *fakeFinance) DeleteBudget(_ context.Context, _, _ string) error   { return nil }
func (f *fakeFinance) ListBudgets(_ context.Context, _ string) ([]core.Budget, error) {
	return nil, nil
}

func (f *fakeFinance) CreateGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	g.ID = "goal-1"
	return g, nil
}

func (f *fakeFinance) UpdateGoal(_ context.Context, g core.Goal) error { return g.Validate() }
func (f *fakeFinance) DeleteGoal(_ context.Context, _, _ string) error { return nil }
func (f *fakeFinance) ListGoals(_ context.Context, _ string) ([]core.Goal, error) {
	return nil, nil
}

func (f *fakeFinance) AddGoalProgress(_ context.Context, _, goalID string, amount core.Money) (core.Goal, error) {
	g, ok := f.goals[goalID]
	if !ok {
		return core.Goal{}, storage.ErrNotFound
	}
	return analytics.AddProgress(g, amount, time.Now()), nil
}

func (f *fakeFinance) RecreateGoal(_ context.Context, _, goalID string) (core.Goal, error) {
	g, ok := f.goals[goalID]
	if !ok {
		return core.Goal{}, storage.ErrNotFound
	}
	draft := analytics.DeriveNextGoal(g)
	return core.Goal{
		ID:            "goal-next",
		OwnerID:       g.OwnerID,
		Title:         draft.Title,
		TargetAmount:  draft.TargetAmount,
		CurrentAmount: draft.CurrentAmount,
		Deadline:      draft.Deadline,
	}, nil
}

// fakeSnapshots implements SnapshotAPI.
type fakeSnapshots struct {
	lastGranularity analytics.Granularity
	snapshot        analytics.Snapshot
}

func (f *fakeSnapshots) Dashboard(_ context.Context, _ string, g analytics.Granularity, reference time.Time) (analytics.Snapshot, error) {
	f.lastGranularity = g
	snap := f.snapshot
	snap.Window = analytics.ResolveWindow(reference, g)
	return snap, nil
}

func newTestServer(finance *fakeFinance, snapshots *fakeSnapshots) *Server {
	if finance.goals == nil {
		finance.goals = make(map[string]core.Goal)
	}
	return NewServer(":0", finance, snapshots, nil)
}

func doRequest(t *testing.T, s *Server, method, path, owner, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if owner != "" {
		req.Header.Set(ownerHeader, owner)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(&fakeFinance{}, &fakeSnapshots{})

	rec := doRequest(t, s, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/readyz", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("readyz status = %d", rec.Code)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	s := newTestServer(&fakeFinance{}, &fakeSnapshots{})
	rec := doRequest(t, s, http.MethodGet, "/healthz", "", "")

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); got == "" {
		t.Errorf("missing Content-Security-Policy")
	}
}

func TestCreateTransaction(t *testing.T) {
	finance := &fakeFinance{}
	s := newTestServer(finance, &fakeSnapshots{})

	body := `{"amount":"12.50","type":"expense","category":"Food","description":"lunch","date":"2024-06-01","payment_method":"cash"}`
	rec := doRequest(t, s, http.MethodPost, "/api/transactions", "owner-1", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp transactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "tx-1" || resp.AmountCents != 1250 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(finance.created) != 1 || finance.created[0].OwnerID != "owner-1" {
		t.Errorf("owner not propagated: %+v", finance.created)
	}
}

func TestCreateTransactionRequiresOwner(t *testing.T) {
	s := newTestServer(&fakeFinance{}, &fakeSnapshots{})

	rec := doRequest(t, s, http.MethodPost, "/api/transactions", "", `{"amount":"1.00"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateTransactionRejectsBadAmount(t *testing.T) {
	s := newTestServer(&fakeFinance{}, &fakeSnapshots{})

	body := `{"amount":"-5","type":"expense","category":"Food","description":"x","date":"2024-06-01"}`
	rec := doRequest(t, s, http.MethodPost, "/api/transactions", "owner-1", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestDeleteTransactionNotFound(t *testing.T) {
	s := newTestServer(&fakeFinance{}, &fakeSnapshots{})

	rec := doRequest(t, s, http.MethodDelete, "/api/transactions/missing", "owner-1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListTransactionsWithFilters(t *testing.T) {
	finance := &fakeFinance{
		transactions: []core.Transaction{
			{ID: "1", OwnerID: "o", Amount: core.Money{Cents: 100}, Type: core.Expense,
				Category: "Food", Description: "pizza", Date: core.NewDate(2024, 6, 1)},
			{ID: "2", OwnerID: "o", Amount: core.Money{Cents: 200}, Type: core.Income,
				Category: "Salary", Description: "pay", Date: core.NewDate(2024, 6, 2)},
		},
	}
	s := newTestServer(finance, &fakeSnapshots{})

	rec := doRequest(t, s, http.MethodGet, "/api/transactions?type=expense&q=pizza", "o", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp []transactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != "1" {
		t.Fatalf("filter not applied: %+v", resp)
	}
}

func TestListTransactionsRejectsUnknownType(t *testing.T) {
	s := newTestServer(&fakeFinance{}, &fakeSnapshots{})

	rec := doRequest(t, s, http.MethodGet, "/api/transactions?type=transfer", "o", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAddGoalProgressCompletes(t *testing.T) {
	finance := &fakeFinance{goals: map[string]core.Goal{
		"g1": {ID: "g1", OwnerID: "o", Title: "Trip",
			TargetAmount:  core.Money{Cents: 1000},
			CurrentAmount: core.Money{Cents: 900},
			Deadline:      core.NewDate(2030, 1, 1)},
	}}
	s := newTestServer(finance, &fakeSnapshots{})

	rec := doRequest(t, s, http.MethodPost, "/api/goals/g1/progress", "o", `{"amount":"1.00"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp goalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Completed || resp.CurrentAmountCents != 1000 {
		t.Errorf("unexpected goal state: %+v", resp)
	}
}

func TestRecreateGoalReturnsFreshGoal(t *testing.T) {
	finance := &fakeFinance{goals: map[string]core.Goal{
		"g1": {ID: "g1", OwnerID: "o", Title: "Trip",
			TargetAmount:  core.Money{Cents: 1000},
			CurrentAmount: core.Money{Cents: 1000},
			Deadline:      core.NewDate(2024, 1, 31),
			Completed:     true},
	}}
	s := newTestServer(finance, &fakeSnapshots{})

	rec := doRequest(t, s, http.MethodPost, "/api/goals/g1/next", "o", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp goalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "goal-next" || resp.Title != "Trip" {
		t.Errorf("unexpected goal: %+v", resp)
	}
	if resp.CurrentAmountCents != 0 || resp.Completed {
		t.Errorf("recreated goal must start fresh: %+v", resp)
	}
	if resp.TargetAmountCents != 1000 {
		t.Errorf("target = %d, want 1000", resp.TargetAmountCents)
	}
	if resp.Deadline != "2024-02-29" {
		t.Errorf("deadline = %q, want clamped 2024-02-29", resp.Deadline)
	}
}

func TestDashboardGranularityAndStep(t *testing.T) {
	snapshots := &fakeSnapshots{}
	s := newTestServer(&fakeFinance{}, snapshots)

	rec := doRequest(t, s, http.MethodGet, "/api/dashboard?granularity=week&date=2024-06-12&step=prev", "o", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if snapshots.lastGranularity != analytics.GranularityWeek {
		t.Errorf("granularity = %v", snapshots.lastGranularity)
	}

	var resp dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 2024-06-12 is a Wednesday; one week back resolves to the prior
	// Monday-to-Sunday window.
	if resp.Window.Start != "2024-06-03" || resp.Window.End != "2024-06-09" {
		t.Errorf("window = %+v", resp.Window)
	}
}

func TestDashboardRejectsUnknownGranularity(t *testing.T) {
	s := newTestServer(&fakeFinance{}, &fakeSnapshots{})

	rec := doRequest(t, s, http.MethodGet, "/api/dashboard?granularity=fortnight", "o", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHealthScoreEndpoint(t *testing.T) {
	snapshots := &fakeSnapshots{snapshot: analytics.Snapshot{
		Health: analytics.HealthScore{Score: 72, SavingsRate: 30, BudgetAdherence: 100, GoalProgress: 60},
	}}
	s := newTestServer(&fakeFinance{}, snapshots)

	rec := doRequest(t, s, http.MethodGet, "/api/health-score", "o", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp healthScoreResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Score != 72 {
		t.Errorf("score = %d, want 72", resp.Score)
	}
	if snapshots.lastGranularity != analytics.GranularityNone {
		t.Errorf("health score must use the unbounded window, got %v", snapshots.lastGranularity)
	}
}

func TestWriteRateLimiting(t *testing.T) {
	s := newTestServer(&fakeFinance{}, &fakeSnapshots{})
	defer s.limiter.Stop()

	body := `{"amount":"1.00","type":"expense","category":"Food","description":"x","date":"2024-06-01"}`

	var limited bool
	for i := 0; i < 70; i++ {
		rec := doRequest(t, s, http.MethodPost, "/api/transactions", "o", body)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Fatalf("expected rate limiting to kick in on writes")
	}

	// Reads are not rate limited
	rec := doRequest(t, s, http.MethodGet, "/api/transactions", "o", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("read status = %d after write limiting", rec.Code)
	}
}
