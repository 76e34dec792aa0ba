package calculator

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Epsilon is the currency tolerance below which a balance counts as settled.
var Epsilon = decimal.New(1, -2)

type party struct {
	id     string
	amount decimal.Decimal // remaining magnitude, always compared against Epsilon
}

// ComputeSettlements turns net balances into a short list of direct transfers.
//
// Algorithm (greedy matching):
// - Drop anyone within Epsilon of zero
// - Creditors sorted by balance descending, debtors by debt descending
// - Pay min(credit, debt) rounded to cents from the front debtor to the front creditor
// - A party leaves its queue once its remainder is below Epsilon
// - Stop when either queue is empty
//
// Ties keep the order of the input. The result is not guaranteed to have the
// fewest possible transfers.
func ComputeSettlements(balances Balances) []models.Settlement {
	var creditors, debtors []party
	for _, b := range balances {
		if b.Net.Abs().LessThan(Epsilon) {
			continue
		}
		if b.Net.IsPositive() {
			creditors = append(creditors, party{id: b.ParticipantID, amount: b.Net})
		} else {
			debtors = append(debtors, party{id: b.ParticipantID, amount: b.Net.Neg()})
		}
	}

	byAmountDesc := func(a, b party) int { return b.amount.Cmp(a.amount) }
	slices.SortStableFunc(creditors, byAmountDesc)
	slices.SortStableFunc(debtors, byAmountDesc)

	settlements := []models.Settlement{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		payment := decimal.Min(debtor.amount, creditor.amount).Round(2)
		if payment.IsPositive() {
			settlements = append(settlements, models.Settlement{
				From:   debtor.id,
				To:     creditor.id,
				Amount: payment,
			})
		}

		debtor.amount = debtor.amount.Sub(payment)
		creditor.amount = creditor.amount.Sub(payment)

		if debtor.amount.Abs().LessThan(Epsilon) {
			i++
		}
		if creditor.amount.Abs().LessThan(Epsilon) {
			j++
		}
	}

	return settlements
}
