package analytics

import (
	"testing"
	"time"

	"bilancio/internal/core"
)

func TestBuildSnapshot(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	transactions := []core.Transaction{
		tx(core.NewDate(2024, 6, 1), core.Income, "Salary", "paycheck", 300000),
		tx(core.NewDate(2024, 6, 10), core.Expense, "Food", "groceries", 50000),
		tx(core.NewDate(2024, 5, 10), core.Expense, "Food", "groceries", 40000),
	}
	budgets := []core.Budget{
		{Category: "Food", Amount: core.Money{Cents: 60000}, Month: "2024-06"},
	}
	goals := []core.Goal{
		{Title: "Trip", TargetAmount: core.Money{Cents: 100000}, CurrentAmount: core.Money{Cents: 25000}, Deadline: core.NewDate(2024, 12, 31)},
	}

	snap := BuildSnapshot(transactions, budgets, goals, GranularityMonth, now, now)

	// Window-scoped totals only see June
	if snap.Totals.Income.Cents != 300000 || snap.Totals.Expense.Cents != 50000 {
		t.Errorf("window totals = %+v", snap.Totals)
	}
	// The series spans the full history
	if len(snap.MonthlySeries) != 2 {
		t.Errorf("series months = %d, want 2", len(snap.MonthlySeries))
	}
	if len(snap.Budgets) != 1 || snap.Budgets[0].Evaluation.Status != BudgetWarning {
		t.Errorf("budget report = %+v", snap.Budgets)
	}
	if len(snap.Goals) != 1 || snap.Goals[0].Progress != 25 {
		t.Errorf("goal report = %+v", snap.Goals)
	}
	if snap.Health.Score < 0 || snap.Health.Score > 100 {
		t.Errorf("health score %d out of range", snap.Health.Score)
	}
}

func TestBuildSnapshotDeterministic(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	transactions := []core.Transaction{
		tx(core.NewDate(2024, 6, 1), core.Income, "Salary", "paycheck", 300000),
		tx(core.NewDate(2024, 6, 2), core.Expense, "Food", "a", 1000),
		tx(core.NewDate(2024, 6, 3), core.Expense, "Fun", "b", 1000),
	}

	a := BuildSnapshot(transactions, nil, nil, GranularityMonth, now, now)
	b := BuildSnapshot(transactions, nil, nil, GranularityMonth, now, now)

	if len(a.TopCategories) != len(b.TopCategories) {
		t.Fatalf("repeated builds disagree")
	}
	for i := range a.TopCategories {
		if a.TopCategories[i] != b.TopCategories[i] {
			t.Fatalf("category ordering is not deterministic: %+v vs %+v", a.TopCategories, b.TopCategories)
		}
	}
}

func TestBuildSnapshotEmpty(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	snap := BuildSnapshot(nil, nil, nil, GranularityMonth, now, now)

	if snap.Totals.Balance.Cents != 0 || len(snap.TopCategories) != 0 || len(snap.UpcomingBills) != 0 {
		t.Fatalf("empty inputs must yield zero-valued snapshot: %+v", snap)
	}
	if snap.Health.Score != 30 {
		t.Fatalf("empty snapshot score = %d, want 30", snap.Health.Score)
	}
	if len(snap.Insights) != 1 {
		t.Fatalf("empty snapshot should carry the onboarding insight")
	}
}
