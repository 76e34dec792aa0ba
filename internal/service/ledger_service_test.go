package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/prefs"
	"github.com/mmynk/splitledger/internal/report"
	"github.com/mmynk/splitledger/internal/storage/memory"
)

type recordingPublisher struct {
	mu       sync.Mutex
	versions []uint64
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, d report.Dashboard) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.versions = append(p.versions, d.Version)
	return p.err
}

type testEnv struct {
	client    *LedgerServiceClient
	server    *httptest.Server
	publisher *recordingPublisher
	metrics   *metrics.Metrics
	registry  *prometheus.Registry
}

// setupTestServer serves a LedgerService backed by an in-memory store.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	store := memory.New()
	l := ledger.New(store)
	require.NoError(t, l.Load(ctx))
	p, err := prefs.Load(ctx, store)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	publisher := &recordingPublisher{}

	svc := NewLedgerService(l, p, WithPublisher(publisher), WithMetrics(m))
	path, handler := NewLedgerServiceHandler(svc, connect.WithInterceptors(
		middleware.LoggingInterceptor(l),
		middleware.MetricsInterceptor(m),
	))

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		client:    NewLedgerServiceClient(http.DefaultClient, server.URL),
		server:    server,
		publisher: publisher,
		metrics:   m,
		registry:  registry,
	}
}

func addParticipants(t *testing.T, client *LedgerServiceClient, names ...string) []string {
	t.Helper()
	ids := make([]string, len(names))
	for i, name := range names {
		resp, err := client.AddParticipant(context.Background(), connect.NewRequest(&AddParticipantRequest{Name: name}))
		require.NoError(t, err)
		ids[i] = resp.Msg.Participant.ID
	}
	return ids
}

func TestResponsesCarryLedgerVersion(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	resp, err := env.client.AddParticipant(ctx, connect.NewRequest(&AddParticipantRequest{Name: "Alice"}))
	require.NoError(t, err)
	version := strconv.FormatUint(resp.Msg.Dashboard.Version, 10)
	assert.Equal(t, version, resp.Header().Get(middleware.VersionHeader))

	list, err := env.client.ListParticipants(ctx, connect.NewRequest(&ListParticipantsRequest{}))
	require.NoError(t, err)
	assert.Equal(t, version, list.Header().Get(middleware.VersionHeader))

	_, err = env.client.RemoveParticipant(ctx, connect.NewRequest(&RemoveParticipantRequest{ID: "ghost"}))
	require.Error(t, err)
}

func TestAddExpenseRejectsOutOfRangeAmount(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	ids := addParticipants(t, env.client, "Alice")

	for _, a := range []string{"1e400", "10.005"} {
		_, err := env.client.AddExpense(ctx, connect.NewRequest(&AddExpenseRequest{
			Expense: ExpenseFields{
				Date: "2024-05-01", Description: "Big", Amount: decimal.RequireFromString(a),
				Payer: ids[0], Participants: ids,
			},
		}))
		require.Error(t, err, a)
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err), a)
	}
}

func TestSettlementScenario(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	ids := addParticipants(t, env.client, "Alice", "Bob", "Carol")

	resp, err := env.client.AddExpense(ctx, connect.NewRequest(&AddExpenseRequest{
		Expense: ExpenseFields{
			Date:         "2024-05-01",
			Description:  "Groceries",
			Category:     "Food",
			Amount:       decimal.NewFromInt(90),
			Payer:        ids[0],
			Participants: ids,
		},
	}))
	require.NoError(t, err)

	d := resp.Msg.Dashboard
	require.Len(t, d.Balances, 3)
	assert.Equal(t, "Alice: gets back $60.00", d.Balances[0].Text)
	assert.Equal(t, "Bob: owes $30.00", d.Balances[1].Text)
	assert.Equal(t, "Carol: owes $30.00", d.Balances[2].Text)

	require.Len(t, d.Settlements, 2)
	assert.Equal(t, "Bob should pay Alice $30.00", d.Settlements[0].Text)
	assert.Equal(t, "Carol should pay Alice $30.00", d.Settlements[1].Text)
	assert.True(t, decimal.NewFromInt(60).Equal(d.Outstanding))

	require.Len(t, d.CategoryTotals, 1)
	assert.Equal(t, "Food", d.CategoryTotals[0].Label)
	require.Len(t, d.Recent, 1)
	assert.Equal(t, resp.Msg.Expense.ID, d.Recent[0].ID)
}

func TestMutualExpensesSettleUp(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	ids := addParticipants(t, env.client, "A", "B")

	for _, payer := range ids {
		_, err := env.client.AddExpense(ctx, connect.NewRequest(&AddExpenseRequest{
			Expense: ExpenseFields{
				Date: "2024-05-01", Description: "Share", Amount: decimal.NewFromInt(50),
				Payer: payer, Participants: ids,
			},
		}))
		require.NoError(t, err)
	}

	resp, err := env.client.GetDashboard(ctx, connect.NewRequest(&GetDashboardRequest{}))
	require.NoError(t, err)
	assert.Empty(t, resp.Msg.Dashboard.Settlements)
	assert.Equal(t, report.AllSettledMessage, resp.Msg.Dashboard.Notices.Settlements)
}

func TestErrorCodes(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	ids := addParticipants(t, env.client, "A", "B")

	_, err := env.client.AddExpense(ctx, connect.NewRequest(&AddExpenseRequest{
		Expense: ExpenseFields{
			Date: "2024-05-01", Description: "Taxi", Amount: decimal.NewFromInt(20),
			Payer: ids[0], Participants: ids,
		},
	}))
	require.NoError(t, err)

	tests := []struct {
		name string
		call func() error
		code connect.Code
	}{
		{
			name: "blank participant name",
			call: func() error {
				_, err := env.client.AddParticipant(ctx, connect.NewRequest(&AddParticipantRequest{Name: " "}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "payer outside participants",
			call: func() error {
				_, err := env.client.AddExpense(ctx, connect.NewRequest(&AddExpenseRequest{
					Expense: ExpenseFields{
						Date: "2024-05-01", Description: "Taxi", Amount: decimal.NewFromInt(20),
						Payer: ids[0], Participants: ids[1:],
					},
				}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "rename unknown participant",
			call: func() error {
				_, err := env.client.RenameParticipant(ctx, connect.NewRequest(&RenameParticipantRequest{ID: "nope", Name: "X"}))
				return err
			},
			code: connect.CodeNotFound,
		},
		{
			name: "remove referenced participant",
			call: func() error {
				_, err := env.client.RemoveParticipant(ctx, connect.NewRequest(&RemoveParticipantRequest{ID: ids[1]}))
				return err
			},
			code: connect.CodeFailedPrecondition,
		},
		{
			name: "remove unknown expense",
			call: func() error {
				_, err := env.client.RemoveExpense(ctx, connect.NewRequest(&RemoveExpenseRequest{ID: "nope"}))
				return err
			},
			code: connect.CodeNotFound,
		},
		{
			name: "unknown expense order",
			call: func() error {
				_, err := env.client.ListExpenses(ctx, connect.NewRequest(&ListExpensesRequest{Order: "amount"}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.Equal(t, tt.code, connect.CodeOf(err))
		})
	}
}

func TestRemoveParticipantAfterExpense(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	ids := addParticipants(t, env.client, "A", "B")

	added, err := env.client.AddExpense(ctx, connect.NewRequest(&AddExpenseRequest{
		Expense: ExpenseFields{
			Date: "2024-05-01", Description: "Tea", Amount: decimal.NewFromInt(4),
			Payer: ids[0], Participants: ids,
		},
	}))
	require.NoError(t, err)

	_, err = env.client.RemoveExpense(ctx, connect.NewRequest(&RemoveExpenseRequest{ID: added.Msg.Expense.ID}))
	require.NoError(t, err)

	resp, err := env.client.RemoveParticipant(ctx, connect.NewRequest(&RemoveParticipantRequest{ID: ids[1]}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Dashboard.Participants, 1)
	assert.Equal(t, "A", resp.Msg.Dashboard.Participants[0].Name)

	list, err := env.client.ListParticipants(ctx, connect.NewRequest(&ListParticipantsRequest{}))
	require.NoError(t, err)
	assert.Len(t, list.Msg.Participants, 1)
}

func TestUpdateExpenseOverRPC(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	ids := addParticipants(t, env.client, "A", "B")

	added, err := env.client.AddExpense(ctx, connect.NewRequest(&AddExpenseRequest{
		Expense: ExpenseFields{
			Date: "2024-05-01", Description: "Pizza", Amount: decimal.NewFromInt(30),
			Payer: ids[0], Participants: ids,
		},
	}))
	require.NoError(t, err)
	id := added.Msg.Expense.ID

	_, err = env.client.UpdateExpense(ctx, connect.NewRequest(&UpdateExpenseRequest{
		ID:      id,
		Expense: ExpenseFields{Date: "2024-05-01", Description: "Pizza", Payer: ids[0], Participants: ids},
	}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	updated, err := env.client.UpdateExpense(ctx, connect.NewRequest(&UpdateExpenseRequest{
		ID: id,
		Expense: ExpenseFields{
			Date: "2024-05-02", Description: "Pizza and drinks", Amount: decimal.NewFromInt(40),
			Payer: ids[1], Participants: ids,
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, id, updated.Msg.Expense.ID)
	assert.Equal(t, "B: gets back $20.00", updated.Msg.Dashboard.Balances[1].Text)

	list, err := env.client.ListExpenses(ctx, connect.NewRequest(&ListExpensesRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Expenses, 1)
	assert.Equal(t, "Pizza and drinks", list.Msg.Expenses[0].Description)
}

func TestListExpensesOrdering(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	ids := addParticipants(t, env.client, "A")

	for _, date := range []string{"2024-01-03", "2024-01-01", "2024-01-02"} {
		_, err := env.client.AddExpense(ctx, connect.NewRequest(&AddExpenseRequest{
			Expense: ExpenseFields{
				Date: date, Description: "Day " + date, Amount: decimal.NewFromInt(1),
				Payer: ids[0], Participants: ids,
			},
		}))
		require.NoError(t, err)
	}

	byDate, err := env.client.ListExpenses(ctx, connect.NewRequest(&ListExpensesRequest{Order: "date"}))
	require.NoError(t, err)
	dates := []string{}
	for _, e := range byDate.Msg.Expenses {
		dates = append(dates, e.Date)
	}
	assert.Equal(t, []string{"2024-01-03", "2024-01-02", "2024-01-01"}, dates)

	limited, err := env.client.ListExpenses(ctx, connect.NewRequest(&ListExpensesRequest{Order: "date", Limit: 2}))
	require.NoError(t, err)
	assert.Len(t, limited.Msg.Expenses, 2)
}

func TestDarkMode(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	toggled, err := env.client.ToggleDarkMode(ctx, connect.NewRequest(&ToggleDarkModeRequest{}))
	require.NoError(t, err)
	assert.True(t, toggled.Msg.Enabled)
	assert.True(t, toggled.Msg.Dashboard.DarkMode)

	set, err := env.client.SetDarkMode(ctx, connect.NewRequest(&SetDarkModeRequest{Enabled: false}))
	require.NoError(t, err)
	assert.False(t, set.Msg.Enabled)

	dash, err := env.client.GetDashboard(ctx, connect.NewRequest(&GetDashboardRequest{}))
	require.NoError(t, err)
	assert.False(t, dash.Msg.Dashboard.DarkMode)
}

func TestMutationsArePublished(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	addParticipants(t, env.client, "A", "B")
	_, err := env.client.GetDashboard(ctx, connect.NewRequest(&GetDashboardRequest{}))
	require.NoError(t, err)

	env.publisher.mu.Lock()
	versions := append([]uint64(nil), env.publisher.versions...)
	env.publisher.mu.Unlock()

	// Reads do not publish; each mutation publishes its own version.
	require.Len(t, versions, 2)
	assert.Less(t, versions[0], versions[1])
}

func TestPublishFailureDoesNotFailCommand(t *testing.T) {
	env := setupTestServer(t)
	env.publisher.mu.Lock()
	env.publisher.err = errors.New("broker unavailable")
	env.publisher.mu.Unlock()

	ids := addParticipants(t, env.client, "A")
	assert.Len(t, ids, 1)
}

func TestCommandMetrics(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	addParticipants(t, env.client, "A")
	_, err := env.client.AddParticipant(ctx, connect.NewRequest(&AddParticipantRequest{}))
	require.Error(t, err)

	expected := `
# HELP splitledger_commands_total Commands handled, by command and result code.
# TYPE splitledger_commands_total counter
splitledger_commands_total{command="AddParticipant",result="invalid_argument"} 1
splitledger_commands_total{command="AddParticipant",result="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(env.registry, strings.NewReader(expected), "splitledger_commands_total"))

	expectedGauge := `
# HELP splitledger_participants Participants in the ledger.
# TYPE splitledger_participants gauge
splitledger_participants 1
`
	assert.NoError(t, testutil.GatherAndCompare(env.registry, strings.NewReader(expectedGauge), "splitledger_participants"))
}

func TestPlainJSONRequest(t *testing.T) {
	env := setupTestServer(t)
	ids := addParticipants(t, env.client, "A")

	body := `{"expense":{"date":"2024-06-01","description":"Lunch","amount":"12.50","payer":"` + ids[0] + `","participants":["` + ids[0] + `"]}}`
	resp, err := http.Post(env.server.URL+LedgerServiceAddExpenseProcedure, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Contains(t, string(raw), `"description":"Lunch"`)
	assert.Contains(t, string(raw), `"category":"Other"`)

	bad, err := http.Post(env.server.URL+LedgerServiceAddExpenseProcedure, "application/json",
		strings.NewReader(`{"expense":{"amount":"lots"}}`))
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}
