// Package service exposes the ledger over Connect.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/notify"
	"github.com/mmynk/splitledger/internal/prefs"
	"github.com/mmynk/splitledger/internal/report"
)

// LedgerService implements the Connect LedgerService.
type LedgerService struct {
	ledger    *ledger.Ledger
	prefs     *prefs.Preferences
	publisher notify.Publisher
	metrics   *metrics.Metrics

	// last built dashboard, reused while the ledger version and color mode are unchanged
	mu     sync.Mutex
	cached *report.Dashboard
}

// Option configures a LedgerService.
type Option func(*LedgerService)

// WithPublisher sends every dashboard built after a mutation to p.
func WithPublisher(p notify.Publisher) Option {
	return func(s *LedgerService) { s.publisher = p }
}

// WithMetrics records dashboard gauges on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *LedgerService) { s.metrics = m }
}

// NewLedgerService creates a LedgerService over a loaded ledger and preferences.
func NewLedgerService(l *ledger.Ledger, p *prefs.Preferences, opts ...Option) *LedgerService {
	s := &LedgerService{
		ledger:    l,
		prefs:     p,
		publisher: notify.LogPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dashboard returns the dashboard for the current ledger version.
func (s *LedgerService) Dashboard() report.Dashboard {
	state := s.ledger.Snapshot()
	darkMode := s.prefs.DarkMode()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil && s.cached.Version == state.Version && s.cached.DarkMode == darkMode {
		return *s.cached
	}

	start := time.Now()
	d := report.Build(state, darkMode)
	s.metrics.ObserveDashboard(d, time.Since(start))

	s.cached = &d
	return d
}

// refresh rebuilds the dashboard after a committed change and publishes it.
// Publish failures are logged only; the change is already persisted.
func (s *LedgerService) refresh(ctx context.Context) report.Dashboard {
	d := s.Dashboard()
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, d); err != nil {
			slog.Warn("Failed to publish dashboard", "version", d.Version, "error", err)
		}
	}
	return d
}

// AddParticipant creates a participant.
func (s *LedgerService) AddParticipant(
	ctx context.Context,
	req *connect.Request[AddParticipantRequest],
) (*connect.Response[ParticipantResponse], error) {
	p, err := s.ledger.AddParticipant(ctx, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ParticipantResponse{
		Participant: p,
		Dashboard:   s.refresh(ctx),
	}), nil
}

// RenameParticipant changes a participant's display name.
func (s *LedgerService) RenameParticipant(
	ctx context.Context,
	req *connect.Request[RenameParticipantRequest],
) (*connect.Response[ParticipantResponse], error) {
	p, err := s.ledger.RenameParticipant(ctx, req.Msg.ID, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ParticipantResponse{
		Participant: p,
		Dashboard:   s.refresh(ctx),
	}), nil
}

// RemoveParticipant deletes a participant no expense references.
func (s *LedgerService) RemoveParticipant(
	ctx context.Context,
	req *connect.Request[RemoveParticipantRequest],
) (*connect.Response[DashboardResponse], error) {
	if err := s.ledger.RemoveParticipant(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DashboardResponse{Dashboard: s.refresh(ctx)}), nil
}

// ListParticipants returns participants in insertion order.
func (s *LedgerService) ListParticipants(
	ctx context.Context,
	req *connect.Request[ListParticipantsRequest],
) (*connect.Response[ListParticipantsResponse], error) {
	return connect.NewResponse(&ListParticipantsResponse{
		Participants: s.ledger.Participants(),
	}), nil
}

// AddExpense records an expense.
func (s *LedgerService) AddExpense(
	ctx context.Context,
	req *connect.Request[AddExpenseRequest],
) (*connect.Response[ExpenseResponse], error) {
	e, err := s.ledger.AddExpense(ctx, toExpenseInput(req.Msg.Expense))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ExpenseResponse{
		Expense:   e,
		Dashboard: s.refresh(ctx),
	}), nil
}

// UpdateExpense replaces an expense after validating the new fields.
func (s *LedgerService) UpdateExpense(
	ctx context.Context,
	req *connect.Request[UpdateExpenseRequest],
) (*connect.Response[ExpenseResponse], error) {
	e, err := s.ledger.UpdateExpense(ctx, req.Msg.ID, toExpenseInput(req.Msg.Expense))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ExpenseResponse{
		Expense:   e,
		Dashboard: s.refresh(ctx),
	}), nil
}

// RemoveExpense deletes an expense.
func (s *LedgerService) RemoveExpense(
	ctx context.Context,
	req *connect.Request[RemoveExpenseRequest],
) (*connect.Response[DashboardResponse], error) {
	if err := s.ledger.RemoveExpense(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DashboardResponse{Dashboard: s.refresh(ctx)}), nil
}

// ListExpenses returns expenses in the requested order.
func (s *LedgerService) ListExpenses(
	ctx context.Context,
	req *connect.Request[ListExpensesRequest],
) (*connect.Response[ListExpensesResponse], error) {
	expenses := s.ledger.Expenses()

	var sorted []models.Expense
	switch req.Msg.Order {
	case "", "date":
		sorted = report.SortByDateDesc(expenses)
	case "recent":
		sorted = report.Recent(expenses, -1)
	default:
		return nil, connect.NewError(connect.CodeInvalidArgument,
			&ledger.ValidationError{Field: "order", Message: `must be "date" or "recent"`})
	}

	if req.Msg.Limit > 0 && len(sorted) > req.Msg.Limit {
		sorted = sorted[:req.Msg.Limit]
	}

	return connect.NewResponse(&ListExpensesResponse{Expenses: sorted}), nil
}

// GetDashboard returns every derived view.
func (s *LedgerService) GetDashboard(
	ctx context.Context,
	req *connect.Request[GetDashboardRequest],
) (*connect.Response[DashboardResponse], error) {
	return connect.NewResponse(&DashboardResponse{Dashboard: s.Dashboard()}), nil
}

// SetDarkMode stores the color-mode preference.
func (s *LedgerService) SetDarkMode(
	ctx context.Context,
	req *connect.Request[SetDarkModeRequest],
) (*connect.Response[DarkModeResponse], error) {
	if err := s.prefs.SetDarkMode(ctx, req.Msg.Enabled); err != nil {
		slog.Error("SetDarkMode failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&DarkModeResponse{
		Enabled:   req.Msg.Enabled,
		Dashboard: s.Dashboard(),
	}), nil
}

// ToggleDarkMode flips the color-mode preference.
func (s *LedgerService) ToggleDarkMode(
	ctx context.Context,
	req *connect.Request[ToggleDarkModeRequest],
) (*connect.Response[DarkModeResponse], error) {
	enabled, err := s.prefs.Toggle(ctx)
	if err != nil {
		slog.Error("ToggleDarkMode failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&DarkModeResponse{
		Enabled:   enabled,
		Dashboard: s.Dashboard(),
	}), nil
}

func toExpenseInput(f ExpenseFields) ledger.ExpenseInput {
	return ledger.ExpenseInput{
		Date:         f.Date,
		Description:  f.Description,
		Category:     f.Category,
		Amount:       f.Amount,
		Payer:        f.Payer,
		Participants: f.Participants,
	}
}
