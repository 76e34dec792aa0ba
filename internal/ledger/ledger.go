// Package ledger owns the authoritative participant and expense collections.
//
// A Ledger validates every command before touching state, persists the full
// collections through a storage.Store, and only then makes the change
// visible. Commands are serialized by a mutex.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ledger holds participants and expenses backed by a storage.Store.
type Ledger struct {
	mu           sync.RWMutex
	store        storage.Store
	participants []models.Participant
	expenses     []models.Expense
	version      uint64

	now   func() time.Time
	newID func() string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the clock used for expense creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator overrides the id generator (uuid by default).
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

// New creates an empty ledger. Call Load to read existing data.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:        store,
		participants: []models.Participant{},
		expenses:     []models.Expense{},
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ExpenseInput carries the user-supplied fields of an expense.
type ExpenseInput struct {
	Date         string
	Description  string
	Category     string
	Amount       decimal.Decimal
	Payer        string
	Participants []string
}

// State is a consistent copy of the ledger at one version.
type State struct {
	Version      uint64
	Participants []models.Participant
	Expenses     []models.Expense
}

// Load replaces in-memory state with the stored collections.
// Missing collections load as empty.
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	participants, expenses, err := loadState(ctx, l.store)
	if err != nil {
		return err
	}

	l.participants = participants
	l.expenses = expenses
	l.version++
	slog.Info("Ledger loaded", "participants", len(participants), "expenses", len(expenses))
	return nil
}

// Save writes the current collections to the store.
func (l *Ledger) Save(ctx context.Context) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.persist(ctx, l.participants, l.expenses)
}

// Version returns a counter that increases on every committed change.
func (l *Ledger) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

// Snapshot returns copies of both collections taken under one lock.
func (l *Ledger) Snapshot() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return State{
		Version:      l.version,
		Participants: slices.Clone(l.participants),
		Expenses:     cloneExpenses(l.expenses),
	}
}

// Participants returns all participants in insertion order.
func (l *Ledger) Participants() []models.Participant {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.participants)
}

// Expenses returns all expenses in insertion order.
func (l *Ledger) Expenses() []models.Expense {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneExpenses(l.expenses)
}

// Participant looks up one participant.
func (l *Ledger) Participant(id string) (models.Participant, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := l.participantIndex(id)
	if i < 0 {
		return models.Participant{}, &NotFoundError{Kind: "participant", ID: id}
	}
	return l.participants[i], nil
}

// Expense looks up one expense.
func (l *Ledger) Expense(id string) (models.Expense, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := l.expenseIndex(id)
	if i < 0 {
		return models.Expense{}, &NotFoundError{Kind: "expense", ID: id}
	}
	return l.expenses[i].Clone(), nil
}

// AddParticipant creates a participant with a fresh id.
func (l *Ledger) AddParticipant(ctx context.Context, name string) (models.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Participant{}, invalid("name", "must not be empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	p := models.Participant{ID: l.newID(), Name: name}
	participants := append(slices.Clone(l.participants), p)
	if err := l.commit(ctx, participants, l.expenses); err != nil {
		return models.Participant{}, err
	}

	slog.Info("Participant added", "participant_id", p.ID, "version", l.version)
	return p, nil
}

// RenameParticipant changes a participant's display name.
func (l *Ledger) RenameParticipant(ctx context.Context, id, name string) (models.Participant, error) {
	name = strings.TrimSpace(name)

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.participantIndex(id)
	if i < 0 {
		return models.Participant{}, &NotFoundError{Kind: "participant", ID: id}
	}
	if name == "" {
		return models.Participant{}, invalid("name", "must not be empty")
	}

	participants := slices.Clone(l.participants)
	participants[i].Name = name
	if err := l.commit(ctx, participants, l.expenses); err != nil {
		return models.Participant{}, err
	}

	slog.Info("Participant renamed", "participant_id", id, "version", l.version)
	return participants[i], nil
}

// RemoveParticipant deletes a participant no expense refers to.
func (l *Ledger) RemoveParticipant(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.participantIndex(id)
	if i < 0 {
		return &NotFoundError{Kind: "participant", ID: id}
	}

	var refs []string
	for _, e := range l.expenses {
		if e.Involves(id) {
			refs = append(refs, e.ID)
		}
	}
	if len(refs) > 0 {
		return &ReferentialIntegrityError{ParticipantID: id, ExpenseIDs: refs}
	}

	participants := slices.Delete(slices.Clone(l.participants), i, i+1)
	if err := l.commit(ctx, participants, l.expenses); err != nil {
		return err
	}

	slog.Info("Participant removed", "participant_id", id, "version", l.version)
	return nil
}

// AddExpense validates the input and records a new expense.
func (l *Ledger) AddExpense(ctx context.Context, in ExpenseInput) (models.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, err := l.buildExpense(in)
	if err != nil {
		return models.Expense{}, err
	}
	e.ID = l.newID()

	expenses := append(cloneExpenses(l.expenses), e)
	if err := l.commit(ctx, l.participants, expenses); err != nil {
		return models.Expense{}, err
	}

	slog.Info("Expense added", "expense_id", e.ID, "amount", e.Amount.String(), "version", l.version)
	return e.Clone(), nil
}

// UpdateExpense replaces an expense's fields. The replacement is validated
// before the existing record is touched; on any error the original stays.
// The id is kept and the creation timestamp refreshed.
func (l *Ledger) UpdateExpense(ctx context.Context, id string, in ExpenseInput) (models.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.expenseIndex(id)
	if i < 0 {
		return models.Expense{}, &NotFoundError{Kind: "expense", ID: id}
	}

	e, err := l.buildExpense(in)
	if err != nil {
		return models.Expense{}, err
	}
	e.ID = id

	expenses := cloneExpenses(l.expenses)
	expenses[i] = e
	if err := l.commit(ctx, l.participants, expenses); err != nil {
		return models.Expense{}, err
	}

	slog.Info("Expense updated", "expense_id", id, "version", l.version)
	return e.Clone(), nil
}

// RemoveExpense deletes an expense.
func (l *Ledger) RemoveExpense(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.expenseIndex(id)
	if i < 0 {
		return &NotFoundError{Kind: "expense", ID: id}
	}

	expenses := slices.Delete(cloneExpenses(l.expenses), i, i+1)
	if err := l.commit(ctx, l.participants, expenses); err != nil {
		return err
	}

	slog.Info("Expense removed", "expense_id", id, "version", l.version)
	return nil
}

// MaxAmount is the exclusive upper bound on a single expense amount.
var MaxAmount = decimal.New(1, 12)

const (
	// amountPlaces is the number of decimal places an entered amount may carry.
	amountPlaces = 2
	// maxAmountExponent bounds the decimal exponent of any amount so that
	// comparisons never rescale an oversized coefficient.
	maxAmountExponent = 18
)

// amountInRange reports whether amount is below MaxAmount and has an exponent
// within the accepted window. Every such amount converts to a finite float64.
func amountInRange(amount decimal.Decimal) bool {
	exp := amount.Exponent()
	if exp > maxAmountExponent || exp < -maxAmountExponent {
		return false
	}
	return amount.Abs().LessThan(MaxAmount)
}

func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return invalid("amount", "must be greater than zero")
	}
	if !amountInRange(amount) {
		return invalid("amount", "must be less than "+MaxAmount.String())
	}
	if !amount.Equal(amount.Round(amountPlaces)) {
		return invalid("amount", fmt.Sprintf("must have at most %d decimal places", amountPlaces))
	}
	return nil
}

// buildExpense validates input against the current participants.
// Callers must hold l.mu.
func (l *Ledger) buildExpense(in ExpenseInput) (models.Expense, error) {
	date := strings.TrimSpace(in.Date)
	if date == "" {
		return models.Expense{}, invalid("date", "must not be empty")
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return models.Expense{}, invalid("date", "must be a calendar date in YYYY-MM-DD form")
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return models.Expense{}, invalid("description", "must not be empty")
	}

	if err := checkAmount(in.Amount); err != nil {
		return models.Expense{}, err
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.DefaultCategory
	}

	participants := dedupe(in.Participants)
	if len(participants) == 0 {
		return models.Expense{}, invalid("participants", "at least one participant is required")
	}
	for _, id := range participants {
		if l.participantIndex(id) < 0 {
			return models.Expense{}, invalid("participants", fmt.Sprintf("unknown participant %q", id))
		}
	}

	if in.Payer == "" {
		return models.Expense{}, invalid("payer", "must not be empty")
	}
	if l.participantIndex(in.Payer) < 0 {
		return models.Expense{}, invalid("payer", fmt.Sprintf("unknown participant %q", in.Payer))
	}
	if !slices.Contains(participants, in.Payer) {
		return models.Expense{}, invalid("payer", "must be one of the participants")
	}

	return models.Expense{
		Date:         date,
		Description:  description,
		Category:     category,
		Amount:       in.Amount,
		Payer:        in.Payer,
		Participants: participants,
		CreatedAt:    l.now().UnixMilli(),
	}, nil
}

// commit persists the new collections and installs them on success.
// Callers must hold l.mu for writing.
func (l *Ledger) commit(ctx context.Context, participants []models.Participant, expenses []models.Expense) error {
	if err := l.persist(ctx, participants, expenses); err != nil {
		slog.Error("Ledger persist failed", "error", err)
		return err
	}
	l.participants = participants
	l.expenses = expenses
	l.version++
	return nil
}

func (l *Ledger) persist(ctx context.Context, participants []models.Participant, expenses []models.Expense) error {
	docs, err := encodeState(participants, expenses)
	if err != nil {
		return err
	}
	if err := l.store.Save(ctx, docs...); err != nil {
		return fmt.Errorf("failed to persist ledger: %w", err)
	}
	return nil
}

func (l *Ledger) participantIndex(id string) int {
	return slices.IndexFunc(l.participants, func(p models.Participant) bool { return p.ID == id })
}

func (l *Ledger) expenseIndex(id string) int {
	return slices.IndexFunc(l.expenses, func(e models.Expense) bool { return e.ID == id })
}

func cloneExpenses(expenses []models.Expense) []models.Expense {
	out := make([]models.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = e.Clone()
	}
	return out
}

// dedupe drops blank and repeated ids, keeping first-occurrence order.
func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}
