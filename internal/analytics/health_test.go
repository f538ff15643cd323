package analytics

import (
	"testing"
	"time"

	"bilancio/internal/core"
)

func TestScoreAllEmpty(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	got := Score(nil, nil, nil, now)

	// savings 0 * 0.4 + vacuous adherence 100 * 0.3 + goals 0 * 0.3 = 30
	if got.Score != 30 {
		t.Errorf("score = %d, want 30", got.Score)
	}
	if got.SavingsRate != 0 {
		t.Errorf("savingsRate = %v, want 0", got.SavingsRate)
	}
	if got.BudgetAdherence != 100 {
		t.Errorf("budgetAdherence = %v, want 100", got.BudgetAdherence)
	}
	if got.GoalProgress != 0 {
		t.Errorf("goalProgress = %v, want 0", got.GoalProgress)
	}
}

func TestScoreComponents(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	transactions := []core.Transaction{
		tx(core.NewDate(2024, 6, 1), core.Income, "Salary", "paycheck", 100000),
		tx(core.NewDate(2024, 6, 10), core.Expense, "Food", "groceries", 50000),
		// Previous month, must not affect the monthly savings rate
		tx(core.NewDate(2024, 5, 10), core.Expense, "Food", "groceries", 99999),
	}
	budgets := []core.Budget{
		{Category: "Food", Amount: core.Money{Cents: 60000}, Month: "2024-06"}, // within
	}
	goals := []core.Goal{
		{TargetAmount: core.Money{Cents: 100000}, CurrentAmount: core.Money{Cents: 50000}},
	}

	got := Score(transactions, budgets, goals, now)
	if got.SavingsRate != 50 {
		t.Errorf("savingsRate = %v, want 50", got.SavingsRate)
	}
	if got.BudgetAdherence != 100 {
		t.Errorf("budgetAdherence = %v, want 100", got.BudgetAdherence)
	}
	if got.GoalProgress != 50 {
		t.Errorf("goalProgress = %v, want 50", got.GoalProgress)
	}
	// 50*0.4 + 100*0.3 + 50*0.3 = 65
	if got.Score != 65 {
		t.Errorf("score = %d, want 65", got.Score)
	}
}

func TestScoreZeroIncomeGuard(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	transactions := []core.Transaction{
		tx(core.NewDate(2024, 6, 10), core.Expense, "Food", "groceries", 50000),
	}

	got := Score(transactions, nil, nil, now)
	if got.SavingsRate != 0 {
		t.Fatalf("no income must yield a zero savings rate, got %v", got.SavingsRate)
	}
}

func TestScoreClampedToRange(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	// Deeply negative savings rate drags the raw score below zero.
	overspent := []core.Transaction{
		tx(core.NewDate(2024, 6, 1), core.Income, "Salary", "paycheck", 1000),
		tx(core.NewDate(2024, 6, 10), core.Expense, "Food", "splurge", 900000),
	}
	if got := Score(overspent, nil, nil, now); got.Score < 0 || got.Score > 100 {
		t.Errorf("score %d out of [0,100]", got.Score)
	}

	// Overfunded goals push the raw score above 100.
	goals := []core.Goal{
		{TargetAmount: core.Money{Cents: 100}, CurrentAmount: core.Money{Cents: 100000}},
	}
	saver := []core.Transaction{
		tx(core.NewDate(2024, 6, 1), core.Income, "Salary", "paycheck", 100000),
	}
	if got := Score(saver, nil, goals, now); got.Score < 0 || got.Score > 100 {
		t.Errorf("score %d out of [0,100]", got.Score)
	}
}
