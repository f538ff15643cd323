package http

import (
	"time"

	"bilancio/internal/analytics"
	"bilancio/internal/core"
)

const dateLayout = "2006-01-02"

type (
	transactionResponse struct {
		ID            string `json:"id"`
		AmountCents   int64  `json:"amount_cents"`
		Type          string `json:"type"`
		Category      string `json:"category"`
		Description   string `json:"description"`
		Date          string `json:"date"`
		PaymentMethod string `json:"payment_method,omitempty"`
		Recurring     bool   `json:"recurring"`
	}

	budgetResponse struct {
		ID          string `json:"id"`
		Category    string `json:"category"`
		AmountCents int64  `json:"amount_cents"`
		Month       string `json:"month"`
	}

	goalResponse struct {
		ID                 string  `json:"id"`
		Title              string  `json:"title"`
		TargetAmountCents  int64   `json:"target_amount_cents"`
		CurrentAmountCents int64   `json:"current_amount_cents"`
		Deadline           string  `json:"deadline"`
		Completed          bool    `json:"completed"`
		CompletedAt        *string `json:"completed_at,omitempty"`
	}

	windowResponse struct {
		Granularity string `json:"granularity"`
		Start       string `json:"start"`
		End         string `json:"end"`
	}

	totalsResponse struct {
		IncomeCents  int64 `json:"income_cents"`
		ExpenseCents int64 `json:"expense_cents"`
		BalanceCents int64 `json:"balance_cents"`
	}

	categoryTotalResponse struct {
		Category   string `json:"category"`
		TotalCents int64  `json:"total_cents"`
	}

	monthPointResponse struct {
		Month        string `json:"month"`
		IncomeCents  int64  `json:"income_cents"`
		ExpenseCents int64  `json:"expense_cents"`
		SavingsCents int64  `json:"savings_cents"`
	}

	budgetReportResponse struct {
		Budget         budgetResponse `json:"budget"`
		SpentCents     int64          `json:"spent_cents"`
		RemainingCents int64          `json:"remaining_cents"`
		Percentage     float64        `json:"percentage"`
		Status         string         `json:"status"`
	}

	goalReportResponse struct {
		Goal          goalResponse `json:"goal"`
		Progress      float64      `json:"progress"`
		DaysRemaining int          `json:"days_remaining"`
		Archivable    bool         `json:"archivable"`
	}

	upcomingBillResponse struct {
		Description        string `json:"description"`
		Category           string `json:"category"`
		AverageAmountCents int64  `json:"average_amount_cents"`
		LastDate           string `json:"last_date"`
		NextDueDate        string `json:"next_due_date"`
		Occurrences        int    `json:"occurrences"`
	}

	healthScoreResponse struct {
		Score           int     `json:"score"`
		SavingsRate     float64 `json:"savings_rate"`
		BudgetAdherence float64 `json:"budget_adherence"`
		GoalProgress    float64 `json:"goal_progress"`
	}

	insightResponse struct {
		Severity string `json:"severity"`
		Title    string `json:"title"`
		Message  string `json:"message"`
	}

	dashboardResponse struct {
		Window           windowResponse          `json:"window"`
		Totals           totalsResponse          `json:"totals"`
		CashBalanceCents int64                   `json:"cash_balance_cents"`
		TopCategories    []categoryTotalResponse `json:"top_categories"`
		MonthlySeries    []monthPointResponse    `json:"monthly_series"`
		Budgets          []budgetReportResponse  `json:"budgets"`
		Goals            []goalReportResponse    `json:"goals"`
		UpcomingBills    []upcomingBillResponse  `json:"upcoming_bills"`
		Health           healthScoreResponse     `json:"health"`
		Insights         []insightResponse       `json:"insights"`
	}
)

func buildTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		AmountCents:   t.Amount.Cents,
		Type:          string(t.Type),
		Category:      t.Category,
		Description:   t.Description,
		Date:          t.Date.Format(dateLayout),
		PaymentMethod: string(t.PaymentMethod),
		Recurring:     t.Recurring,
	}
}

func buildTransactionList(transactions []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, buildTransactionResponse(t))
	}
	return out
}

func buildBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:          b.ID,
		Category:    b.Category,
		AmountCents: b.Amount.Cents,
		Month:       b.Month,
	}
}

func buildBudgetList(budgets []core.Budget) []budgetResponse {
	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, buildBudgetResponse(b))
	}
	return out
}

func buildGoalResponse(g core.Goal) goalResponse {
	resp := goalResponse{
		ID:                 g.ID,
		Title:              g.Title,
		TargetAmountCents:  g.TargetAmount.Cents,
		CurrentAmountCents: g.CurrentAmount.Cents,
		Deadline:           g.Deadline.Format(dateLayout),
		Completed:          g.Completed,
	}
	if !g.CompletedAt.IsZero() {
		completedAt := g.CompletedAt.UTC().Format(time.RFC3339)
		resp.CompletedAt = &completedAt
	}
	return resp
}

func buildGoalList(goals []core.Goal) []goalResponse {
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, buildGoalResponse(g))
	}
	return out
}

func buildHealthResponse(h analytics.HealthScore) healthScoreResponse {
	return healthScoreResponse{
		Score:           h.Score,
		SavingsRate:     h.SavingsRate,
		BudgetAdherence: h.BudgetAdherence,
		GoalProgress:    h.GoalProgress,
	}
}

func buildBillList(bills []analytics.UpcomingBill) []upcomingBillResponse {
	out := make([]upcomingBillResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, upcomingBillResponse{
			Description:        b.Description,
			Category:           b.Category,
			AverageAmountCents: b.AverageAmount.Cents,
			LastDate:           b.LastDate.Format(dateLayout),
			NextDueDate:        b.NextDueDate.Format(dateLayout),
			Occurrences:        b.Occurrences,
		})
	}
	return out
}

func buildInsightList(insights []analytics.Insight) []insightResponse {
	out := make([]insightResponse, 0, len(insights))
	for _, in := range insights {
		out = append(out, insightResponse{
			Severity: string(in.Severity),
			Title:    in.Title,
			Message:  in.Message,
		})
	}
	return out
}

func buildDashboardResponse(g analytics.Granularity, snap analytics.Snapshot) dashboardResponse {
	topCategories := make([]categoryTotalResponse, 0, len(snap.TopCategories))
	for _, c := range snap.TopCategories {
		topCategories = append(topCategories, categoryTotalResponse{
			Category:   c.Category,
			TotalCents: c.Total.Cents,
		})
	}

	series := make([]monthPointResponse, 0, len(snap.MonthlySeries))
	for _, p := range snap.MonthlySeries {
		series = append(series, monthPointResponse{
			Month:        p.Month,
			IncomeCents:  p.Income.Cents,
			ExpenseCents: p.Expense.Cents,
			SavingsCents: p.Savings.Cents,
		})
	}

	budgets := make([]budgetReportResponse, 0, len(snap.Budgets))
	for _, b := range snap.Budgets {
		budgets = append(budgets, budgetReportResponse{
			Budget:         buildBudgetResponse(b.Budget),
			SpentCents:     b.Evaluation.Spent.Cents,
			RemainingCents: b.Evaluation.Remaining.Cents,
			Percentage:     b.Evaluation.Percentage,
			Status:         string(b.Evaluation.Status),
		})
	}

	goals := make([]goalReportResponse, 0, len(snap.Goals))
	for _, gr := range snap.Goals {
		goals = append(goals, goalReportResponse{
			Goal:          buildGoalResponse(gr.Goal),
			Progress:      gr.Progress,
			DaysRemaining: gr.DaysRemaining,
			Archivable:    gr.Archivable,
		})
	}

	return dashboardResponse{
		Window: windowResponse{
			Granularity: string(g),
			Start:       snap.Window.Start.Format(dateLayout),
			End:         snap.Window.End.Format(dateLayout),
		},
		Totals: totalsResponse{
			IncomeCents:  snap.Totals.Income.Cents,
			ExpenseCents: snap.Totals.Expense.Cents,
			BalanceCents: snap.Totals.Balance.Cents,
		},
		CashBalanceCents: snap.CashBalance.Cents,
		TopCategories:    topCategories,
		MonthlySeries:    series,
		Budgets:          budgets,
		Goals:            goals,
		UpcomingBills:    buildBillList(snap.UpcomingBills),
		Health:           buildHealthResponse(snap.Health),
		Insights:         buildInsightList(snap.Insights),
	}
}
