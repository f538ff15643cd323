package analytics

import (
	"strings"

	"bilancio/internal/core"
)

// Predicate narrows a transaction list by exact type, exact category and a
// case-insensitive search over description and category. Zero-valued fields
// are ignored; provided fields are combined with AND.
type Predicate struct {
	Type       core.TransactionType
	Category   string
	SearchText string
}

// FilterByWindow returns the transactions whose date falls inside the window.
// Records with a zero date are excluded rather than reported as errors; the
// engine favors best-effort partial results over hard failure.
func FilterByWindow(transactions []core.Transaction, window DateWindow) []core.Transaction {
	out := make([]core.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.Date.IsZero() {
			continue
		}
		if window.Contains(t.Date.Time) {
			out = append(out, t)
		}
	}
	return out
}

// FilterByPredicate returns the transactions matching every provided field of p.
func FilterByPredicate(transactions []core.Transaction, p Predicate) []core.Transaction {
	search := strings.ToLower(strings.TrimSpace(p.SearchText))

	out := make([]core.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if p.Type != "" && t.Type != p.Type {
			continue
		}
		if p.Category != "" && t.Category != p.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Description), search) &&
			!strings.Contains(strings.ToLower(t.Category), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}
