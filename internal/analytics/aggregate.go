package analytics

import (
	"sort"

	"bilancio/internal/core"
)

// DefaultTopCategories bounds the "top categories" view on the dashboard.
const DefaultTopCategories = 5

type (
	// Totals holds the income/expense sums of a transaction collection.
	// Balance is always income minus expense.
	Totals struct {
		Income  core.Money
		Expense core.Money
		Balance core.Money
	}

	// CategoryTotal is an amount aggregated by category name.
	CategoryTotal struct {
		Category string
		Total    core.Money
	}

	// MonthPoint is one entry of the month-bucketed income/expense series.
	MonthPoint struct {
		Month   string // YYYY-MM
		Income  core.Money
		Expense core.Money
		Savings core.Money
	}
)

// SumByType computes income, expense and balance over the collection.
func SumByType(transactions []core.Transaction) Totals {
	var income, expense int64
	for _, t := range transactions {
		switch t.Type {
		case core.Income:
			income += t.Amount.Cents
		case core.Expense:
			expense += t.Amount.Cents
		}
	}
	return Totals{
		Income:  core.Money{Cents: income},
		Expense: core.Money{Cents: expense},
		Balance: core.Money{Cents: income - expense},
	}
}

// CashBalance computes the running balance restricted to cash payments:
// income adds, expense subtracts. Records without a payment method are
// excluded.
func CashBalance(transactions []core.Transaction) core.Money {
	var cents int64
	for _, t := range transactions {
		if t.PaymentMethod != core.PaymentCash {
			continue
		}
		switch t.Type {
		case core.Income:
			cents += t.Amount.Cents
		case core.Expense:
			cents -= t.Amount.Cents
		}
	}
	return core.Money{Cents: cents}
}

// GroupByCategory sums amounts per category, restricted to one transaction type.
func GroupByCategory(transactions []core.Transaction, typ core.TransactionType) map[string]core.Money {
	totals := make(map[string]core.Money)
	for _, t := range transactions {
		if t.Type != typ {
			continue
		}
		sum := totals[t.Category]
		sum.Cents += t.Amount.Cents
		totals[t.Category] = sum
	}
	return totals
}

// TopCategories returns at most limit category totals for the given type,
// sorted by total descending with ties broken by category name ascending so
// the ordering is deterministic.
func TopCategories(transactions []core.Transaction, typ core.TransactionType, limit int) []CategoryTotal {
	grouped := GroupByCategory(transactions, typ)

	out := make([]CategoryTotal, 0, len(grouped))
	for category, total := range grouped {
		out = append(out, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total.Cents != out[j].Total.Cents {
			return out[i].Total.Cents > out[j].Total.Cents
		}
		return out[i].Category < out[j].Category
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MonthlySeries buckets the collection by calendar month, one entry per
// distinct YYYY-MM key present in the input, sorted ascending by key.
// Records with a zero date are skipped.
func MonthlySeries(transactions []core.Transaction) []MonthPoint {
	buckets := make(map[string]*MonthPoint)
	for _, t := range transactions {
		if t.Date.IsZero() {
			continue
		}
		key := t.Date.MonthKey()
		point, ok := buckets[key]
		if !ok {
			point = &MonthPoint{Month: key}
			buckets[key] = point
		}
		switch t.Type {
		case core.Income:
			point.Income.Cents += t.Amount.Cents
		case core.Expense:
			point.Expense.Cents += t.Amount.Cents
		}
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]MonthPoint, 0, len(keys))
	for _, key := range keys {
		point := buckets[key]
		point.Savings = core.Money{Cents: point.Income.Cents - point.Expense.Cents}
		out = append(out, *point)
	}
	return out
}
