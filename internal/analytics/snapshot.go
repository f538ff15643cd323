package analytics

import (
	"time"

	"bilancio/internal/core"
)

type (
	// BudgetReport pairs a budget with its derived adherence state.
	BudgetReport struct {
		Budget     core.Budget
		Evaluation BudgetEvaluation
	}

	// GoalReport pairs a goal with its derived progress state.
	GoalReport struct {
		Goal          core.Goal
		Progress      float64
		DaysRemaining int
		Archivable    bool
	}

	// Snapshot bundles every derived view for one (collection, window) pair.
	// It is purely a function of its inputs and safe to memoize by content.
	Snapshot struct {
		Window        DateWindow
		Totals        Totals
		CashBalance   core.Money
		TopCategories []CategoryTotal
		MonthlySeries []MonthPoint
		Budgets       []BudgetReport
		Goals         []GoalReport
		UpcomingBills []UpcomingBill
		Health        HealthScore
		Insights      []Insight
	}
)

// BuildSnapshot computes the full dashboard bundle. Window-scoped views
// (totals, cash balance, top categories) use only transactions inside the
// resolved window; series, budgets, bills, health and insights look at the
// whole history since their own contracts carry their time scoping.
func BuildSnapshot(transactions []core.Transaction, budgets []core.Budget, goals []core.Goal, g Granularity, reference, now time.Time) Snapshot {
	window := ResolveWindow(reference, g)
	windowed := FilterByWindow(transactions, window)

	budgetReports := make([]BudgetReport, 0, len(budgets))
	for _, b := range budgets {
		budgetReports = append(budgetReports, BudgetReport{
			Budget:     b,
			Evaluation: EvaluateBudget(b, transactions),
		})
	}

	goalReports := make([]GoalReport, 0, len(goals))
	for _, goal := range goals {
		goalReports = append(goalReports, GoalReport{
			Goal:          goal,
			Progress:      Progress(goal),
			DaysRemaining: DaysRemaining(goal, now),
			Archivable:    IsArchivable(goal, now),
		})
	}

	health := Score(transactions, budgets, goals, now)

	return Snapshot{
		Window:        window,
		Totals:        SumByType(windowed),
		CashBalance:   CashBalance(windowed),
		TopCategories: TopCategories(windowed, core.Expense, DefaultTopCategories),
		MonthlySeries: MonthlySeries(transactions),
		Budgets:       budgetReports,
		Goals:         goalReports,
		UpcomingBills: PredictUpcomingBills(transactions, now),
		Health:        health,
		Insights:      GenerateInsights(transactions, budgets, goals, health, now),
	}
}
