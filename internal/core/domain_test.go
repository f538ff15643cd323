package core

import (
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	if err := NewDate(2025, 1, 1).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Date{Time: time.Time{}}).Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
}

func TestDateMonthKey(t *testing.T) {
	cases := []struct {
		d    Date
		want string
	}{
		{NewDate(2024, 1, 31), "2024-01"},
		{NewDate(2024, 12, 1), "2024-12"},
		{NewDate(1999, 6, 15), "1999-06"},
	}
	for i, tc := range cases {
		if got := tc.d.MonthKey(); got != tc.want {
			t.Fatalf("case %d expected %q, got %q", i, tc.want, got)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.February || d.Day() != 29 {
		t.Fatalf("unexpected date %v", d)
	}

	for _, bad := range []string{"", "2024-13-01", "2024/01/01", "not a date"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}

func TestValidMonthKey(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01", true},
		{"1999-12", true},
		{"2024-13", false},
		{"2024-1", false},
		{"2024", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidMonthKey(tc.in); got != tc.ok {
			t.Fatalf("%q expected %v, got %v", tc.in, tc.ok, got)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -100}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:          NewDate(2025, 1, 1),
		Type:          Expense,
		Description:   "groceries",
		Amount:        Money{Cents: 1200},
		Category:      "Food",
		PaymentMethod: PaymentCard,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Date: Date{}, Type: Expense, Description: "a", Amount: Money{Cents: 1}, Category: "c"},
		{Date: NewDate(2025, 1, 1), Type: "transfer", Description: "a", Amount: Money{Cents: 1}, Category: "c"},
		{Date: NewDate(2025, 1, 1), Type: Income, Description: "", Amount: Money{Cents: 1}, Category: "c"},
		{Date: NewDate(2025, 1, 1), Type: Income, Description: "a", Amount: Money{Cents: 0}, Category: "c"},
		{Date: NewDate(2025, 1, 1), Type: Income, Description: "a", Amount: Money{Cents: 1}, Category: ""},
		{Date: NewDate(2025, 1, 1), Type: Income, Description: "a", Amount: Money{Cents: 1}, Category: "c", PaymentMethod: "cheque"},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Category: "Food", Amount: Money{Cents: 50000}, Month: "2024-01"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Budget{
		{Category: "", Amount: Money{Cents: 1}, Month: "2024-01"},
		{Category: "Food", Amount: Money{Cents: 0}, Month: "2024-01"},
		{Category: "Food", Amount: Money{Cents: 1}, Month: "January"},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestGoalValidate(t *testing.T) {
	good := Goal{Title: "Vacation", TargetAmount: Money{Cents: 100000}, Deadline: NewDate(2025, 6, 1)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Goal{
		{Title: "", TargetAmount: Money{Cents: 1}, Deadline: NewDate(2025, 6, 1)},
		{Title: "a", TargetAmount: Money{Cents: 0}, Deadline: NewDate(2025, 6, 1)},
		{Title: "a", TargetAmount: Money{Cents: 1}, CurrentAmount: Money{Cents: -1}, Deadline: NewDate(2025, 6, 1)},
		{Title: "a", TargetAmount: Money{Cents: 1}, Deadline: Date{}},
	}
	for i, g := range bads {
		if err := g.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
