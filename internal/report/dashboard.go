// Package report turns ledger state into everything the presentation and
// charting layers display: sorted expense views, balance status lines,
// settlement lines and chart series.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
)

// Empty-state messages shown in place of a view with nothing to display.
const (
	NoParticipantsMessage   = "No friends added yet. Add friends to start tracking expenses."
	NoExpensesMessage       = "No expenses added yet."
	NoBalancesMessage       = "Add friends and expenses to see balances."
	NoSettlementPlanMessage = "Add friends and expenses to see settlement plan."
	AllSettledMessage       = "Everyone is settled up!"
)

// BalanceLine is one participant's balance ready for display.
type BalanceLine struct {
	ParticipantID string          `json:"participantId"`
	Name          string          `json:"name"`
	Net           decimal.Decimal `json:"net"`
	Status        string          `json:"status"`
	Text          string          `json:"text"`
}

// SettlementLine is one suggested transfer ready for display.
type SettlementLine struct {
	From     string          `json:"from"`
	FromName string          `json:"fromName"`
	To       string          `json:"to"`
	ToName   string          `json:"toName"`
	Amount   decimal.Decimal `json:"amount"`
	Text     string          `json:"text"`
}

// Notices holds the empty-state message for each view, or "" when the view has content.
type Notices struct {
	Participants string `json:"participants,omitempty"`
	Expenses     string `json:"expenses,omitempty"`
	Balances     string `json:"balances,omitempty"`
	Settlements  string `json:"settlements,omitempty"`
}

// Dashboard is the full derived view of the ledger at one version.
type Dashboard struct {
	Version           uint64               `json:"version"`
	Participants      []models.Participant `json:"participants"`
	Expenses          []models.Expense     `json:"expenses"`
	Recent            []models.Expense     `json:"recent"`
	Balances          []BalanceLine        `json:"balances"`
	Settlements       []SettlementLine     `json:"settlements"`
	CategoryTotals    Series               `json:"categoryTotals"`
	ParticipantTotals Series               `json:"participantTotals"`
	Outstanding       decimal.Decimal      `json:"outstanding"`
	DarkMode          bool                 `json:"darkMode"`
	Notices           Notices              `json:"notices"`
}

// Build recomputes every derived view from scratch.
func Build(state ledger.State, darkMode bool) Dashboard {
	names := make(map[string]string, len(state.Participants))
	for _, p := range state.Participants {
		names[p.ID] = p.Name
	}

	balances := calculator.ComputeBalances(state.Participants, state.Expenses)
	settlements := calculator.ComputeSettlements(balances)

	d := Dashboard{
		Version:           state.Version,
		Participants:      state.Participants,
		Expenses:          SortByDateDesc(state.Expenses),
		Recent:            Recent(state.Expenses, RecentLimit),
		Balances:          make([]BalanceLine, 0, len(balances)),
		Settlements:       make([]SettlementLine, 0, len(settlements)),
		CategoryTotals:    CategoryTotals(state.Expenses),
		ParticipantTotals: ParticipantTotals(state.Participants, state.Expenses),
		Outstanding:       decimal.Zero,
		DarkMode:          darkMode,
	}
	if d.Participants == nil {
		d.Participants = []models.Participant{}
	}

	for _, b := range balances {
		name := names[b.ParticipantID]
		d.Balances = append(d.Balances, BalanceLine{
			ParticipantID: b.ParticipantID,
			Name:          name,
			Net:           b.Net,
			Status:        StatusOf(b.Net),
			Text:          BalanceStatus(name, b.Net),
		})
	}

	for _, s := range settlements {
		d.Settlements = append(d.Settlements, SettlementLine{
			From:     s.From,
			FromName: names[s.From],
			To:       s.To,
			ToName:   names[s.To],
			Amount:   s.Amount,
			Text:     SettlementText(names[s.From], names[s.To], s.Amount),
		})
		d.Outstanding = d.Outstanding.Add(s.Amount)
	}

	if len(state.Participants) == 0 {
		d.Notices.Participants = NoParticipantsMessage
		d.Notices.Balances = NoBalancesMessage
		d.Notices.Settlements = NoSettlementPlanMessage
	} else if len(d.Settlements) == 0 {
		d.Notices.Settlements = AllSettledMessage
	}
	if len(state.Expenses) == 0 {
		d.Notices.Expenses = NoExpensesMessage
	}

	return d
}
