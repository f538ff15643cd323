package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentBank PaymentMethod = "bank"
	// PaymentUnspecified marks records whose payment method was never set.
	// Such records are excluded from cash-balance calculations.
	PaymentUnspecified PaymentMethod = ""
)

type (
	TransactionType string

	PaymentMethod string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID            string
		OwnerID       string
		Amount        Money // always positive; sign is carried by Type
		Type          TransactionType
		Category      string
		Description   string
		Date          Date
		PaymentMethod PaymentMethod
		Recurring     bool
	}

	Budget struct {
		ID       string
		OwnerID  string
		Category string
		Amount   Money  // spending cap
		Month    string // YYYY-MM calendar-month key
	}

	Goal struct {
		ID            string
		OwnerID       string
		Title         string
		TargetAmount  Money
		CurrentAmount Money
		Deadline      Date
		Completed     bool
		CompletedAt   time.Time // set once, on the incomplete-to-complete transition
	}
)

var (
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrEmptyDescription     = errors.New("empty description")
	ErrEmptyCategory        = errors.New("empty category")
	ErrEmptyTitle           = errors.New("empty title")
	ErrInvalidMonthKey      = errors.New("invalid month key")
	ErrDescriptionTooLong   = errors.New("description too long (max 200 characters)")
	ErrTitleTooLong         = errors.New("title too long (max 200 characters)")
)

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// MonthKey returns the YYYY-MM key of the date's calendar month.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// ValidMonthKey reports whether s is a well-formed YYYY-MM month key.
func ValidMonthKey(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (p PaymentMethod) Validate() error {
	switch p {
	case PaymentCash, PaymentCard, PaymentBank, PaymentUnspecified:
		return nil
	default:
		return ErrInvalidPaymentMethod
	}
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if err := t.PaymentMethod.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if !ValidMonthKey(b.Month) {
		return ErrInvalidMonthKey
	}
	return nil
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(g.Title) > 200 {
		return ErrTitleTooLong
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := g.Deadline.Validate(); err != nil {
		return err
	}
	return nil
}
