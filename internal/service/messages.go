package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/report"
)

// AddParticipantRequest names a new participant.
type AddParticipantRequest struct {
	Name string `json:"name"`
}

// RenameParticipantRequest changes the display name of participant ID.
type RenameParticipantRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RemoveParticipantRequest removes a participant no expense references.
type RemoveParticipantRequest struct {
	ID string `json:"id"`
}

// ListParticipantsRequest takes no arguments.
type ListParticipantsRequest struct{}

// ListParticipantsResponse lists participants in insertion order.
type ListParticipantsResponse struct {
	Participants []models.Participant `json:"participants"`
}

// ParticipantResponse returns the affected participant and the refreshed dashboard.
type ParticipantResponse struct {
	Participant models.Participant `json:"participant"`
	Dashboard   report.Dashboard   `json:"dashboard"`
}

// ExpenseFields are the user-editable fields of an expense.
// Amount accepts a JSON number or a numeric string.
type ExpenseFields struct {
	Date         string          `json:"date"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	Payer        string          `json:"payer"`
	Participants []string        `json:"participants"`
}

// AddExpenseRequest records a new expense.
type AddExpenseRequest struct {
	Expense ExpenseFields `json:"expense"`
}

// UpdateExpenseRequest replaces the fields of expense ID.
type UpdateExpenseRequest struct {
	ID      string        `json:"id"`
	Expense ExpenseFields `json:"expense"`
}

// RemoveExpenseRequest deletes expense ID.
type RemoveExpenseRequest struct {
	ID string `json:"id"`
}

// ListExpensesRequest selects an ordering. "date" (default) sorts by date
// descending, "recent" by creation time descending. Limit <= 0 means no limit.
type ListExpensesRequest struct {
	Order string `json:"order"`
	Limit int    `json:"limit"`
}

// ListExpensesResponse lists expenses in the requested order.
type ListExpensesResponse struct {
	Expenses []models.Expense `json:"expenses"`
}

// ExpenseResponse returns the affected expense and the refreshed dashboard.
type ExpenseResponse struct {
	Expense   models.Expense   `json:"expense"`
	Dashboard report.Dashboard `json:"dashboard"`
}

// GetDashboardRequest takes no arguments.
type GetDashboardRequest struct{}

// DashboardResponse carries the current dashboard.
type DashboardResponse struct {
	Dashboard report.Dashboard `json:"dashboard"`
}

// SetDarkModeRequest sets the dark mode preference.
type SetDarkModeRequest struct {
	Enabled bool `json:"enabled"`
}

// ToggleDarkModeRequest flips the dark mode preference.
type ToggleDarkModeRequest struct{}

// DarkModeResponse reports the stored preference and the refreshed dashboard.
type DarkModeResponse struct {
	Enabled   bool             `json:"enabled"`
	Dashboard report.Dashboard `json:"dashboard"`
}
