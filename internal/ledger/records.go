package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// expenseRecord is the stored shape of an expense. Amounts are plain JSON
// numbers and the creation time is named "timestamp".
type expenseRecord struct {
	ID           string      `json:"id"`
	Date         string      `json:"date"`
	Description  string      `json:"description"`
	Category     string      `json:"category"`
	Amount       json.Number `json:"amount"`
	Payer        string      `json:"payer"`
	Participants []string    `json:"participants"`
	Timestamp    int64       `json:"timestamp"`
}

func encodeState(participants []models.Participant, expenses []models.Expense) ([]storage.Document, error) {
	if participants == nil {
		participants = []models.Participant{}
	}
	friends, err := json.Marshal(participants)
	if err != nil {
		return nil, fmt.Errorf("failed to encode participants: %w", err)
	}

	records := make([]expenseRecord, len(expenses))
	for i, e := range expenses {
		records[i] = expenseRecord{
			ID:           e.ID,
			Date:         e.Date,
			Description:  e.Description,
			Category:     e.Category,
			Amount:       json.Number(e.Amount.String()),
			Payer:        e.Payer,
			Participants: e.Participants,
			Timestamp:    e.CreatedAt,
		}
	}
	expensesData, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode expenses: %w", err)
	}

	return []storage.Document{
		{Collection: storage.CollectionParticipants, Data: friends},
		{Collection: storage.CollectionExpenses, Data: expensesData},
	}, nil
}

func loadState(ctx context.Context, store storage.Store) ([]models.Participant, []models.Expense, error) {
	participants := []models.Participant{}
	data, ok, err := store.Load(ctx, storage.CollectionParticipants)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load participants: %w", err)
	}
	if ok {
		if err := json.Unmarshal(data, &participants); err != nil {
			return nil, nil, fmt.Errorf("failed to decode participants: %w", err)
		}
		if participants == nil {
			participants = []models.Participant{}
		}
	}

	var records []expenseRecord
	data, ok, err = store.Load(ctx, storage.CollectionExpenses)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	if ok {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, nil, fmt.Errorf("failed to decode expenses: %w", err)
		}
	}

	expenses := make([]models.Expense, 0, len(records))
	for _, r := range records {
		amount, err := decimal.NewFromString(r.Amount.String())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode amount of expense %s: %w", r.ID, err)
		}
		if !amountInRange(amount) {
			return nil, nil, fmt.Errorf("amount of expense %s is out of range: %s", r.ID, r.Amount)
		}
		expenses = append(expenses, models.Expense{
			ID:           r.ID,
			Date:         r.Date,
			Description:  r.Description,
			Category:     r.Category,
			Amount:       amount,
			Payer:        r.Payer,
			Participants: r.Participants,
			CreatedAt:    r.Timestamp,
		})
	}

	return participants, expenses, nil
}
