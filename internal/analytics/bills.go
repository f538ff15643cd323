package analytics

import (
	"sort"
	"time"

	"bilancio/internal/core"
)

// MaxPredictedBills bounds the upcoming-bills list on the dashboard.
const MaxPredictedBills = 5

// Recurrence detection parameters: an expense must repeat at least
// minBillOccurrences times within the trailing billLookbackMonths to be
// treated as a bill. The next occurrence is assumed billIntervalDays after
// the last one; when that instant is already behind now, the prediction is
// rolled forward a whole number of intervals so the list stays upcoming.
const (
	minBillOccurrences = 2
	billLookbackMonths = 3
	billIntervalDays   = 30
)

// UpcomingBill is a heuristic prediction of a recurring expense.
type UpcomingBill struct {
	Description   string
	Category      string
	AverageAmount core.Money
	LastDate      core.Date
	NextDueDate   time.Time
	Occurrences   int
}

type billGroup struct {
	totalCents int64
	count      int
	lastDate   time.Time
}

type billKey struct {
	description string
	category    string
}

// PredictUpcomingBills detects expenses that recur under the same
// description and category within the trailing three months and predicts
// their next due date and average amount. False positives and negatives are
// acceptable; the result is advisory only.
func PredictUpcomingBills(transactions []core.Transaction, now time.Time) []UpcomingBill {
	cutoff := now.AddDate(0, -billLookbackMonths, 0)

	groups := make(map[billKey]*billGroup)
	for _, t := range transactions {
		if t.Type != core.Expense || t.Date.IsZero() {
			continue
		}
		if t.Date.Before(cutoff) || t.Date.After(now) {
			continue
		}
		key := billKey{description: t.Description, category: t.Category}
		g, ok := groups[key]
		if !ok {
			g = &billGroup{}
			groups[key] = g
		}
		g.totalCents += t.Amount.Cents
		g.count++
		if t.Date.After(g.lastDate) {
			g.lastDate = t.Date.Time
		}
	}

	bills := make([]UpcomingBill, 0, len(groups))
	for key, g := range groups {
		if g.count < minBillOccurrences {
			continue
		}
		nextDue := g.lastDate.AddDate(0, 0, billIntervalDays)
		for !nextDue.After(now) {
			nextDue = nextDue.AddDate(0, 0, billIntervalDays)
		}
		bills = append(bills, UpcomingBill{
			Description:   key.description,
			Category:      key.category,
			AverageAmount: core.Money{Cents: g.totalCents / int64(g.count)},
			LastDate:      core.Date{Time: g.lastDate},
			NextDueDate:   nextDue,
			Occurrences:   g.count,
		})
	}

	sort.Slice(bills, func(i, j int) bool {
		if !bills[i].NextDueDate.Equal(bills[j].NextDueDate) {
			return bills[i].NextDueDate.Before(bills[j].NextDueDate)
		}
		return bills[i].Description < bills[j].Description
	})

	if len(bills) > MaxPredictedBills {
		bills = bills[:MaxPredictedBills]
	}
	return bills
}
