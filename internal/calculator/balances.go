// Package calculator derives balances and settlement plans from ledger state.
// Everything here is a pure function of its inputs.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Balance is one participant's net position across all expenses.
type Balance struct {
	ParticipantID string
	Paid          decimal.Decimal // Total fronted as payer
	Owed          decimal.Decimal // Sum of equal shares across expenses they take part in
	Net           decimal.Decimal // Paid - Owed. Positive = is owed money, Negative = owes money
}

// Balances holds one Balance per participant, in participant order.
type Balances []Balance

// Get returns the balance for a participant.
func (b Balances) Get(participantID string) (Balance, bool) {
	for _, bal := range b {
		if bal.ParticipantID == participantID {
			return bal, true
		}
	}
	return Balance{}, false
}

// Total sums every net balance. It is zero up to division rounding.
func (b Balances) Total() decimal.Decimal {
	total := decimal.Zero
	for _, bal := range b {
		total = total.Add(bal.Net)
	}
	return total
}

// Map returns the net balances keyed by participant ID.
func (b Balances) Map() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(b))
	for _, bal := range b {
		m[bal.ParticipantID] = bal.Net
	}
	return m
}

// ComputeBalances computes every participant's net balance.
//
// Algorithm:
// - Every participant starts at zero
// - For each expense: payer gets +amount, each sharer (payer included) gets -amount/len(participants)
// - Accumulation is commutative, so expense order does not matter
//
// Ids that do not belong to a known participant are dropped from the sums.
// The ledger never stores such expenses, so this only matters for hand-built input.
func ComputeBalances(participants []models.Participant, expenses []models.Expense) Balances {
	if len(participants) == 0 {
		return Balances{}
	}

	balances := make(Balances, len(participants))
	index := make(map[string]int, len(participants))
	for i, p := range participants {
		balances[i] = Balance{
			ParticipantID: p.ID,
			Paid:          decimal.Zero,
			Owed:          decimal.Zero,
		}
		index[p.ID] = i
	}

	for _, e := range expenses {
		share, err := EqualShare(e.Amount, len(e.Participants))
		if err != nil {
			continue
		}

		if i, ok := index[e.Payer]; ok {
			balances[i].Paid = balances[i].Paid.Add(e.Amount)
		}
		for _, id := range e.Participants {
			if i, ok := index[id]; ok {
				balances[i].Owed = balances[i].Owed.Add(share)
			}
		}
	}

	for i := range balances {
		balances[i].Net = balances[i].Paid.Sub(balances[i].Owed)
	}

	return balances
}
