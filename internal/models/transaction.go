package models

import "time"

// Transaction is a single income or expense record. It always belongs to
// one user and references one category of that same user. Amounts are
// signed cents: income positive, expense negative.
type Transaction struct {
	ID           int       `json:"id"`
	UserID       int       `json:"-"`
	CategoryID   int       `json:"category_id"`
	CategoryName string    `json:"category,omitempty"` // joined for display
	AmountCents  int64     `json:"amount_cents"`
	Amount       string    `json:"amount"` // decimal rendering of AmountCents
	OccurredOn   time.Time `json:"occurred_on"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Totals are the aggregates over a filtered transaction set. ExpenseCents
// is the (non-positive) sum of negative amounts, so Net = Income + Expense.
type Totals struct {
	IncomeCents  int64  `json:"income_cents"`
	ExpenseCents int64  `json:"expense_cents"`
	NetCents     int64  `json:"net_cents"`
	Income       string `json:"income"`
	Expense      string `json:"expense"`
	Net          string `json:"net"`
}

// Format fills the decimal string renderings from the cents fields.
func (t *Totals) Format() {
	t.Income = FormatAmount(t.IncomeCents)
	t.Expense = FormatAmount(t.ExpenseCents)
	t.Net = FormatAmount(t.NetCents)
}
