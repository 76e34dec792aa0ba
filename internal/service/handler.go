package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "splitledger.v1.LedgerService"

// Procedure paths, in the form "/<service>/<method>".
const (
	LedgerServiceAddParticipantProcedure    = "/" + LedgerServiceName + "/AddParticipant"
	LedgerServiceRenameParticipantProcedure = "/" + LedgerServiceName + "/RenameParticipant"
	LedgerServiceRemoveParticipantProcedure = "/" + LedgerServiceName + "/RemoveParticipant"
	LedgerServiceListParticipantsProcedure  = "/" + LedgerServiceName + "/ListParticipants"
	LedgerServiceAddExpenseProcedure        = "/" + LedgerServiceName + "/AddExpense"
	LedgerServiceUpdateExpenseProcedure     = "/" + LedgerServiceName + "/UpdateExpense"
	LedgerServiceRemoveExpenseProcedure     = "/" + LedgerServiceName + "/RemoveExpense"
	LedgerServiceListExpensesProcedure      = "/" + LedgerServiceName + "/ListExpenses"
	LedgerServiceGetDashboardProcedure      = "/" + LedgerServiceName + "/GetDashboard"
	LedgerServiceSetDarkModeProcedure       = "/" + LedgerServiceName + "/SetDarkMode"
	LedgerServiceToggleDarkModeProcedure    = "/" + LedgerServiceName + "/ToggleDarkMode"
)

// NewLedgerServiceHandler builds an HTTP handler for every LedgerService
// procedure. It returns the path to mount the handler on.
func NewLedgerServiceHandler(svc *LedgerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(LedgerServiceAddParticipantProcedure, connect.NewUnaryHandler(
		LedgerServiceAddParticipantProcedure, svc.AddParticipant, opts...))
	mux.Handle(LedgerServiceRenameParticipantProcedure, connect.NewUnaryHandler(
		LedgerServiceRenameParticipantProcedure, svc.RenameParticipant, opts...))
	mux.Handle(LedgerServiceRemoveParticipantProcedure, connect.NewUnaryHandler(
		LedgerServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts...))
	mux.Handle(LedgerServiceListParticipantsProcedure, connect.NewUnaryHandler(
		LedgerServiceListParticipantsProcedure, svc.ListParticipants, opts...))
	mux.Handle(LedgerServiceAddExpenseProcedure, connect.NewUnaryHandler(
		LedgerServiceAddExpenseProcedure, svc.AddExpense, opts...))
	mux.Handle(LedgerServiceUpdateExpenseProcedure, connect.NewUnaryHandler(
		LedgerServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...))
	mux.Handle(LedgerServiceRemoveExpenseProcedure, connect.NewUnaryHandler(
		LedgerServiceRemoveExpenseProcedure, svc.RemoveExpense, opts...))
	mux.Handle(LedgerServiceListExpensesProcedure, connect.NewUnaryHandler(
		LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(LedgerServiceGetDashboardProcedure, connect.NewUnaryHandler(
		LedgerServiceGetDashboardProcedure, svc.GetDashboard, opts...))
	mux.Handle(LedgerServiceSetDarkModeProcedure, connect.NewUnaryHandler(
		LedgerServiceSetDarkModeProcedure, svc.SetDarkMode, opts...))
	mux.Handle(LedgerServiceToggleDarkModeProcedure, connect.NewUnaryHandler(
		LedgerServiceToggleDarkModeProcedure, svc.ToggleDarkMode, opts...))

	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient calls a LedgerService over Connect.
type LedgerServiceClient struct {
	addParticipant    *connect.Client[AddParticipantRequest, ParticipantResponse]
	renameParticipant *connect.Client[RenameParticipantRequest, ParticipantResponse]
	removeParticipant *connect.Client[RemoveParticipantRequest, DashboardResponse]
	listParticipants  *connect.Client[ListParticipantsRequest, ListParticipantsResponse]
	addExpense        *connect.Client[AddExpenseRequest, ExpenseResponse]
	updateExpense     *connect.Client[UpdateExpenseRequest, ExpenseResponse]
	removeExpense     *connect.Client[RemoveExpenseRequest, DashboardResponse]
	listExpenses      *connect.Client[ListExpensesRequest, ListExpensesResponse]
	getDashboard      *connect.Client[GetDashboardRequest, DashboardResponse]
	setDarkMode       *connect.Client[SetDarkModeRequest, DarkModeResponse]
	toggleDarkMode    *connect.Client[ToggleDarkModeRequest, DarkModeResponse]
}

// NewLedgerServiceClient creates a client for the service at baseURL
// (e.g. http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)

	return &LedgerServiceClient{
		addParticipant: connect.NewClient[AddParticipantRequest, ParticipantResponse](
			httpClient, baseURL+LedgerServiceAddParticipantProcedure, opts...),
		renameParticipant: connect.NewClient[RenameParticipantRequest, ParticipantResponse](
			httpClient, baseURL+LedgerServiceRenameParticipantProcedure, opts...),
		removeParticipant: connect.NewClient[RemoveParticipantRequest, DashboardResponse](
			httpClient, baseURL+LedgerServiceRemoveParticipantProcedure, opts...),
		listParticipants: connect.NewClient[ListParticipantsRequest, ListParticipantsResponse](
			httpClient, baseURL+LedgerServiceListParticipantsProcedure, opts...),
		addExpense: connect.NewClient[AddExpenseRequest, ExpenseResponse](
			httpClient, baseURL+LedgerServiceAddExpenseProcedure, opts...),
		updateExpense: connect.NewClient[UpdateExpenseRequest, ExpenseResponse](
			httpClient, baseURL+LedgerServiceUpdateExpenseProcedure, opts...),
		removeExpense: connect.NewClient[RemoveExpenseRequest, DashboardResponse](
			httpClient, baseURL+LedgerServiceRemoveExpenseProcedure, opts...),
		listExpenses: connect.NewClient[ListExpensesRequest, ListExpensesResponse](
			httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		getDashboard: connect.NewClient[GetDashboardRequest, DashboardResponse](
			httpClient, baseURL+LedgerServiceGetDashboardProcedure, opts...),
		setDarkMode: connect.NewClient[SetDarkModeRequest, DarkModeResponse](
			httpClient, baseURL+LedgerServiceSetDarkModeProcedure, opts...),
		toggleDarkMode: connect.NewClient[ToggleDarkModeRequest, DarkModeResponse](
			httpClient, baseURL+LedgerServiceToggleDarkModeProcedure, opts...),
	}
}

func (c *LedgerServiceClient) AddParticipant(ctx context.Context, req *connect.Request[AddParticipantRequest]) (*connect.Response[ParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RenameParticipant(ctx context.Context, req *connect.Request[RenameParticipantRequest]) (*connect.Response[ParticipantResponse], error) {
	return c.renameParticipant.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[RemoveParticipantRequest]) (*connect.Response[DashboardResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListParticipants(ctx context.Context, req *connect.Request[ListParticipantsRequest]) (*connect.Response[ListParticipantsResponse], error) {
	return c.listParticipants.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RemoveExpense(ctx context.Context, req *connect.Request[RemoveExpenseRequest]) (*connect.Response[DashboardResponse], error) {
	return c.removeExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetDashboard(ctx context.Context, req *connect.Request[GetDashboardRequest]) (*connect.Response[DashboardResponse], error) {
	return c.getDashboard.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) SetDarkMode(ctx context.Context, req *connect.Request[SetDarkModeRequest]) (*connect.Response[DarkModeResponse], error) {
	return c.setDarkMode.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ToggleDarkMode(ctx context.Context, req *connect.Request[ToggleDarkModeRequest]) (*connect.Response[DarkModeResponse], error) {
	return c.toggleDarkMode.CallUnary(ctx, req)
}
