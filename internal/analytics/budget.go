package analytics

import "bilancio/internal/core"

const (
	BudgetGood     BudgetStatus = "good"
	BudgetWarning  BudgetStatus = "warning"
	BudgetExceeded BudgetStatus = "exceeded"
)

// Status thresholds in percent of the budget cap. Boundary values belong to
// the stricter category: exactly 100% is exceeded, exactly 80% is warning.
const (
	budgetWarningThreshold  = 80.0
	budgetExceededThreshold = 100.0
)

type (
	BudgetStatus string

	// BudgetEvaluation is the derived adherence state of one budget.
	BudgetEvaluation struct {
		Spent      core.Money
		Remaining  core.Money
		Percentage float64
		Status     BudgetStatus
	}
)

// EvaluateBudget computes the amount spent against a budget's category during
// its calendar month, and classifies adherence. A zero cap yields a zero
// percentage rather than propagating Inf/NaN.
func EvaluateBudget(budget core.Budget, transactions []core.Transaction) BudgetEvaluation {
	var spent int64
	for _, t := range transactions {
		if t.Type != core.Expense || t.Category != budget.Category {
			continue
		}
		if t.Date.IsZero() || t.Date.MonthKey() != budget.Month {
			continue
		}
		spent += t.Amount.Cents
	}

	var percentage float64
	if budget.Amount.Cents > 0 {
		percentage = float64(spent) / float64(budget.Amount.Cents) * 100
	}

	remaining := budget.Amount.Cents - spent
	if remaining < 0 {
		remaining = 0
	}

	status := BudgetGood
	switch {
	case percentage >= budgetExceededThreshold:
		status = BudgetExceeded
	case percentage >= budgetWarningThreshold:
		status = BudgetWarning
	}

	return BudgetEvaluation{
		Spent:      core.Money{Cents: spent},
		Remaining:  core.Money{Cents: remaining},
		Percentage: percentage,
		Status:     status,
	}
}

// AdherenceRate returns the percentage of budgets whose spending stayed at or
// under the cap. An empty budget set is vacuously compliant at 100.
func AdherenceRate(budgets []core.Budget, transactions []core.Transaction) float64 {
	if len(budgets) == 0 {
		return 100
	}
	withinCap := 0
	for _, b := range budgets {
		eval := EvaluateBudget(b, transactions)
		if eval.Spent.Cents <= b.Amount.Cents {
			withinCap++
		}
	}
	return float64(withinCap) / float64(len(budgets)) * 100
}
