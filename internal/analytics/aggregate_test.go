package analytics

import (
	"testing"

	"bilancio/internal/core"
)

func TestSumByType(t *testing.T) {
	transactions := []core.Transaction{
		tx(core.NewDate(2024, 1, 5), core.Income, "Salary", "paycheck", 100000),
		tx(core.NewDate(2024, 1, 10), core.Expense, "Food", "groceries", 40000),
		tx(core.NewDate(2024, 1, 12), core.Expense, "Transport", "fuel", 10000),
	}

	got := SumByType(transactions)
	if got.Income.Cents != 100000 {
		t.Errorf("income = %d, want 100000", got.Income.Cents)
	}
	if got.Expense.Cents != 50000 {
		t.Errorf("expense = %d, want 50000", got.Expense.Cents)
	}
	if got.Balance.Cents != got.Income.Cents-got.Expense.Cents {
		t.Errorf("balance = %d, want income-expense = %d", got.Balance.Cents, got.Income.Cents-got.Expense.Cents)
	}
}

func TestSumByTypeEmpty(t *testing.T) {
	got := SumByType(nil)
	if got.Income.Cents != 0 || got.Expense.Cents != 0 || got.Balance.Cents != 0 {
		t.Fatalf("expected all zeros, got %+v", got)
	}
}

func TestCashBalance(t *testing.T) {
	cash := func(typ core.TransactionType, cents int64) core.Transaction {
		tr := tx(core.NewDate(2024, 1, 1), typ, "Misc", "cash op", cents)
		tr.PaymentMethod = core.PaymentCash
		return tr
	}
	card := tx(core.NewDate(2024, 1, 1), core.Expense, "Misc", "card op", 99999)
	card.PaymentMethod = core.PaymentCard
	unspecified := tx(core.NewDate(2024, 1, 1), core.Expense, "Misc", "no method", 55555)

	got := CashBalance([]core.Transaction{
		cash(core.Income, 5000),
		cash(core.Expense, 1500),
		card,
		unspecified,
	})
	if got.Cents != 3500 {
		t.Fatalf("cash balance = %d, want 3500", got.Cents)
	}
}

func TestGroupByCategory(t *testing.T) {
	transactions := []core.Transaction{
		tx(core.NewDate(2024, 1, 1), core.Expense, "Food", "a", 1000),
		tx(core.NewDate(2024, 1, 2), core.Expense, "Food", "b", 2000),
		tx(core.NewDate(2024, 1, 3), core.Expense, "Transport", "c", 500),
		tx(core.NewDate(2024, 1, 4), core.Income, "Salary", "d", 100000),
	}

	got := GroupByCategory(transactions, core.Expense)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got["Food"].Cents != 3000 {
		t.Errorf("Food = %d, want 3000", got["Food"].Cents)
	}
	if got["Transport"].Cents != 500 {
		t.Errorf("Transport = %d, want 500", got["Transport"].Cents)
	}
	if _, ok := got["Salary"]; ok {
		t.Errorf("income categories must not appear in an expense grouping")
	}
}

func TestTopCategoriesOrdering(t *testing.T) {
	transactions := []core.Transaction{
		tx(core.NewDate(2024, 1, 1), core.Expense, "Cinema", "a", 2000),
		tx(core.NewDate(2024, 1, 2), core.Expense, "Books", "b", 2000),
		tx(core.NewDate(2024, 1, 3), core.Expense, "Rent", "c", 90000),
		tx(core.NewDate(2024, 1, 4), core.Expense, "Food", "d", 5000),
	}

	got := TopCategories(transactions, core.Expense, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Category != "Rent" || got[1].Category != "Food" {
		t.Errorf("expected Rent, Food leading, got %q, %q", got[0].Category, got[1].Category)
	}
	// Cinema and Books tie at 2000; name ascending breaks the tie.
	if got[2].Category != "Books" {
		t.Errorf("tie must break by name ascending, got %q", got[2].Category)
	}
}

func TestTopCategoriesEmpty(t *testing.T) {
	if got := TopCategories(nil, core.Expense, DefaultTopCategories); len(got) != 0 {
		t.Fatalf("expected empty, got %d", len(got))
	}
}

func TestMonthlySeries(t *testing.T) {
	transactions := []core.Transaction{
		tx(core.NewDate(2024, 2, 5), core.Income, "Salary", "feb pay", 100000),
		tx(core.NewDate(2024, 2, 20), core.Expense, "Food", "feb food", 30000),
		tx(core.NewDate(2024, 1, 5), core.Income, "Salary", "jan pay", 90000),
		tx(core.NewDate(2024, 1, 20), core.Expense, "Food", "jan food", 95000),
		tx(core.Date{}, core.Expense, "Food", "no date", 1),
	}

	got := MonthlySeries(transactions)
	if len(got) != 2 {
		t.Fatalf("expected 2 months, got %d", len(got))
	}
	if got[0].Month != "2024-01" || got[1].Month != "2024-02" {
		t.Fatalf("months must sort ascending, got %q, %q", got[0].Month, got[1].Month)
	}
	if got[0].Savings.Cents != -5000 {
		t.Errorf("january savings = %d, want -5000", got[0].Savings.Cents)
	}
	if got[1].Savings.Cents != 70000 {
		t.Errorf("february savings = %d, want 70000", got[1].Savings.Cents)
	}
}

func TestMonthlySeriesEmpty(t *testing.T) {
	if got := MonthlySeries(nil); len(got) != 0 {
		t.Fatalf("expected empty series, got %d", len(got))
	}
}
