package models

import (
	"slices"

	"github.com/shopspring/decimal"
)

// DefaultCategory is used for expenses recorded without a category.
const DefaultCategory = "Other"

// DateLayout is the calendar date format used for Expense.Date.
const DateLayout = "2006-01-02"

// Expense represents a single payment event shared equally among participants.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Date is the calendar date of the expense (YYYY-MM-DD).
	// Only used for display and sorting.
	Date string `json:"date"`

	// Description is the human-readable label (e.g., "Groceries").
	Description string `json:"description"`

	// Category is a free-form label. Empty means DefaultCategory.
	Category string `json:"category"`

	// Amount is the positive total paid.
	Amount decimal.Decimal `json:"amount"`

	// Payer is the ID of the participant who fronted the money.
	// Always one of Participants.
	Payer string `json:"payer"`

	// Participants are the IDs of everyone sharing the expense, payer included.
	Participants []string `json:"participants"`

	// CreatedAt is the Unix timestamp in milliseconds when the record was created.
	// Used for "recent" ordering, independent of Date.
	CreatedAt int64 `json:"createdAt"`
}

// CategoryOrDefault returns the category label, falling back to DefaultCategory.
func (e Expense) CategoryOrDefault() string {
	if e.Category == "" {
		return DefaultCategory
	}
	return e.Category
}

// Involves reports whether the participant is the payer or one of the sharers.
func (e Expense) Involves(participantID string) bool {
	return e.Payer == participantID || slices.Contains(e.Participants, participantID)
}

// Clone returns a copy that does not share the Participants slice.
func (e Expense) Clone() Expense {
	e.Participants = slices.Clone(e.Participants)
	return e
}
