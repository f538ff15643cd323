package analytics

import (
	"fmt"
	"time"

	"bilancio/internal/core"
)

// MaxInsights bounds the advisory list; when more rules fire, earlier rules
// take priority.
const MaxInsights = 3

const (
	SeverityInfo    InsightSeverity = "info"
	SeverityWarning InsightSeverity = "warning"
	SeveritySuccess InsightSeverity = "success"
)

// Expense growth over this fraction month-over-month triggers a warning.
const expenseGrowthThreshold = 0.20

// A goal this close to its target earns an encouragement.
const goalNearCompletion = 90.0

// Fewer current-month transactions than this counts as low activity.
const lowActivityCount = 5

type (
	InsightSeverity string

	// Insight is one advisory message for the dashboard.
	Insight struct {
		Severity InsightSeverity
		Title    string
		Message  string
	}
)

// GenerateInsights runs the rule set over already-computed analytics and the
// raw collections, returning at most MaxInsights messages in rule-priority
// order. All rules are pure; nothing here reads external state.
func GenerateInsights(transactions []core.Transaction, budgets []core.Budget, goals []core.Goal, health HealthScore, now time.Time) []Insight {
	var insights []Insight

	// An empty history gets the onboarding message and nothing else;
	// reporting "low activity" on top of it would be noise.
	if len(transactions) == 0 {
		insights = append(insights, Insight{
			Severity: SeverityInfo,
			Title:    "Get started",
			Message:  "Record your first transaction to unlock spending analytics.",
		})
		return truncateInsights(insights)
	}

	monthKey := now.UTC().Format("2006-01")
	prevKey := now.UTC().AddDate(0, -1, 0).Format("2006-01")

	var currentExpense, previousExpense int64
	currentCount := 0
	for _, t := range transactions {
		if t.Date.IsZero() {
			continue
		}
		key := t.Date.MonthKey()
		if key == monthKey {
			currentCount++
			if t.Type == core.Expense {
				currentExpense += t.Amount.Cents
			}
		} else if key == prevKey && t.Type == core.Expense {
			previousExpense += t.Amount.Cents
		}
	}

	if previousExpense > 0 {
		growth := float64(currentExpense-previousExpense) / float64(previousExpense)
		if growth > expenseGrowthThreshold {
			insights = append(insights, Insight{
				Severity: SeverityWarning,
				Title:    "Spending is up",
				Message:  fmt.Sprintf("Expenses grew %.0f%% compared to last month.", growth*100),
			})
		}
	}

	if health.SavingsRate > 20 {
		insights = append(insights, Insight{
			Severity: SeveritySuccess,
			Title:    "Strong savings rate",
			Message:  fmt.Sprintf("You are saving %.0f%% of this month's income.", health.SavingsRate),
		})
	}

	exceeded := 0
	for _, b := range budgets {
		if EvaluateBudget(b, transactions).Status == BudgetExceeded {
			exceeded++
		}
	}
	if exceeded > 0 {
		noun := "budgets"
		if exceeded == 1 {
			noun = "budget"
		}
		insights = append(insights, Insight{
			Severity: SeverityWarning,
			Title:    "Budget exceeded",
			Message:  fmt.Sprintf("%d %s over the cap this month.", exceeded, noun),
		})
	}

	for _, g := range goals {
		if !g.Completed && Progress(g) >= goalNearCompletion {
			insights = append(insights, Insight{
				Severity: SeveritySuccess,
				Title:    "Goal almost there",
				Message:  fmt.Sprintf("%q is at %.0f%% of its target.", g.Title, Progress(g)),
			})
			break
		}
	}

	if currentCount < lowActivityCount {
		insights = append(insights, Insight{
			Severity: SeverityInfo,
			Title:    "Low activity",
			Message:  "Few transactions recorded this month; numbers may be incomplete.",
		})
	}

	return truncateInsights(insights)
}

func truncateInsights(insights []Insight) []Insight {
	if len(insights) > MaxInsights {
		return insights[:MaxInsights]
	}
	return insights
}
