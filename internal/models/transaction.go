package models

import "time"

// Kind is the direction of a transaction.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction represents a single income or expense record.
// Amount is always non-negative and already converted to the base currency;
// Currency keeps the code the user originally entered.
type Transaction struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	Kind     Kind      `json:"type"`
	Amount   float64   `json:"amount"`
	Category string    `json:"category"`
	Currency string    `json:"currency"`
	Date     time.Time `json:"date"`
}

// Signed returns the amount as net spending: positive for expenses,
// negative for income.
func (t Transaction) Signed() float64 {
	if t.Kind == KindIncome {
		return -t.Amount
	}
	return t.Amount
}

// Budget caps spending for a category over an inclusive window.
type Budget struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
	Start    time.Time `json:"start_date"`
	End      time.Time `json:"end_date"`
}

// Active reports whether at falls inside the budget window, bounds included.
func (b Budget) Active(at time.Time) bool {
	return !at.Before(b.Start) && !at.After(b.End)
}

// DateRange is an optional inclusive time filter. A zero bound means the
// range is open on that side.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t satisfies the bounds that are set.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}
