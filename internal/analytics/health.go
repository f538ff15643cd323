package analytics

import (
	"math"
	"time"

	"bilancio/internal/core"
)

// Component weights of the composite score. Kept in sync with the documented
// scoring contract: savings rate 40%, budget adherence 30%, goal progress 30%.
const (
	savingsRateWeight     = 0.4
	budgetAdherenceWeight = 0.3
	goalProgressWeight    = 0.3
)

// HealthScore is the composite 0-100 financial health rating together with
// the three rates it was computed from.
type HealthScore struct {
	Score           int
	SavingsRate     float64
	BudgetAdherence float64
	GoalProgress    float64
}

// Score combines the current month's savings rate, budget adherence and mean
// goal progress into a weighted 0-100 score.
//
// Zero-guards differ deliberately per component: no income yields a savings
// rate of 0, no budgets yields adherence of 100 (an empty constraint set is
// vacuously satisfied, users without budgets are not penalized), and no goals
// yields progress of 0.
func Score(transactions []core.Transaction, budgets []core.Budget, goals []core.Goal, now time.Time) HealthScore {
	monthKey := now.UTC().Format("2006-01")

	var monthIncome, monthExpense int64
	for _, t := range transactions {
		if t.Date.IsZero() || t.Date.MonthKey() != monthKey {
			continue
		}
		switch t.Type {
		case core.Income:
			monthIncome += t.Amount.Cents
		case core.Expense:
			monthExpense += t.Amount.Cents
		}
	}

	var savingsRate float64
	if monthIncome > 0 {
		savingsRate = float64(monthIncome-monthExpense) / float64(monthIncome) * 100
	}

	adherence := AdherenceRate(budgets, transactions)

	var goalProgress float64
	if len(goals) > 0 {
		var sum float64
		for _, g := range goals {
			sum += Progress(g)
		}
		goalProgress = sum / float64(len(goals))
	}

	raw := savingsRate*savingsRateWeight + adherence*budgetAdherenceWeight + goalProgress*goalProgressWeight
	score := int(math.Round(raw))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return HealthScore{
		Score:           score,
		SavingsRate:     savingsRate,
		BudgetAdherence: adherence,
		GoalProgress:    goalProgress,
	}
}
