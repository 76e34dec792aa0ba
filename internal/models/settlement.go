package models

import "github.com/shopspring/decimal"

// Settlement represents a suggested payment between two participants.
// Settlements are derived from balances and never persisted.
type Settlement struct {
	// From is the participant who pays (debtor).
	From string `json:"from"`

	// To is the participant who receives (creditor).
	To string `json:"to"`

	// Amount is the positive payment, rounded to currency precision.
	Amount decimal.Decimal `json:"amount"`
}
