package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	AuthServiceName   = "splitledger.v1.AuthService"
	LedgerServiceName = "splitledger.v1.LedgerService"
)

// Fully-qualified procedure names, as routed by the handlers below.
const (
	AuthServiceRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthServiceLogoutProcedure         = "/" + AuthServiceName + "/Logout"
	AuthServiceGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"

	LedgerServiceListParticipantsProcedure  = "/" + LedgerServiceName + "/ListParticipants"
	LedgerServiceAddParticipantProcedure    = "/" + LedgerServiceName + "/AddParticipant"
	LedgerServiceRemoveParticipantProcedure = "/" + LedgerServiceName + "/RemoveParticipant"
	LedgerServiceListExpensesProcedure      = "/" + LedgerServiceName + "/ListExpenses"
	LedgerServiceCreateExpenseProcedure     = "/" + LedgerServiceName + "/CreateExpense"
	LedgerServiceUpdateExpenseProcedure     = "/" + LedgerServiceName + "/UpdateExpense"
	LedgerServiceDeleteExpenseProcedure     = "/" + LedgerServiceName + "/DeleteExpense"
	LedgerServiceExportExpensesProcedure    = "/" + LedgerServiceName + "/ExportExpenses"
	LedgerServiceGetSummaryProcedure        = "/" + LedgerServiceName + "/GetSummary"
	LedgerServiceAuditBalancesProcedure     = "/" + LedgerServiceName + "/AuditBalances"
	LedgerServiceRebuildBalancesProcedure   = "/" + LedgerServiceName + "/RebuildBalances"
)

// AuthServiceHandler is implemented by the account service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	Logout(context.Context, *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
}

// LedgerServiceHandler is implemented by the ledger service.
type LedgerServiceHandler interface {
	ListParticipants(context.Context, *connect.Request[ListParticipantsRequest]) (*connect.Response[ListParticipantsResponse], error)
	AddParticipant(context.Context, *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[RemoveParticipantRequest]) (*connect.Response[RemoveParticipantResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	ExportExpenses(context.Context, *connect.Request[ExportExpensesRequest]) (*connect.Response[ExportExpensesResponse], error)
	GetSummary(context.Context, *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error)
	AuditBalances(context.Context, *connect.Request[AuditBalancesRequest]) (*connect.Response[AuditBalancesResponse], error)
	RebuildBalances(context.Context, *connect.Request[RebuildBalancesRequest]) (*connect.Response[RebuildBalancesResponse], error)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}

// routes dispatches on the exact procedure path.
type routes map[string]http.Handler

func (rt routes) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := rt[r.URL.Path]; ok {
		h.ServeHTTP(w, r)
		return
	}
	http.NotFound(w, r)
}

// NewAuthServiceHandler returns the mount path and handler for svc.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + AuthServiceName + "/", routes{
		AuthServiceRegisterProcedure:       connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...),
		AuthServiceLoginProcedure:          connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
		AuthServiceLogoutProcedure:         connect.NewUnaryHandler(AuthServiceLogoutProcedure, svc.Logout, opts...),
		AuthServiceGetCurrentUserProcedure: connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...),
	}
}

// NewLedgerServiceHandler returns the mount path and handler for svc.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + LedgerServiceName + "/", routes{
		LedgerServiceListParticipantsProcedure:  connect.NewUnaryHandler(LedgerServiceListParticipantsProcedure, svc.ListParticipants, opts...),
		LedgerServiceAddParticipantProcedure:    connect.NewUnaryHandler(LedgerServiceAddParticipantProcedure, svc.AddParticipant, opts...),
		LedgerServiceRemoveParticipantProcedure: connect.NewUnaryHandler(LedgerServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts...),
		LedgerServiceListExpensesProcedure:      connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...),
		LedgerServiceCreateExpenseProcedure:     connect.NewUnaryHandler(LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opts...),
		LedgerServiceUpdateExpenseProcedure:     connect.NewUnaryHandler(LedgerServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...),
		LedgerServiceDeleteExpenseProcedure:     connect.NewUnaryHandler(LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...),
		LedgerServiceExportExpensesProcedure:    connect.NewUnaryHandler(LedgerServiceExportExpensesProcedure, svc.ExportExpenses, opts...),
		LedgerServiceGetSummaryProcedure:        connect.NewUnaryHandler(LedgerServiceGetSummaryProcedure, svc.GetSummary, opts...),
		LedgerServiceAuditBalancesProcedure:     connect.NewUnaryHandler(LedgerServiceAuditBalancesProcedure, svc.AuditBalances, opts...),
		LedgerServiceRebuildBalancesProcedure:   connect.NewUnaryHandler(LedgerServiceRebuildBalancesProcedure, svc.RebuildBalances, opts...),
	}
}

// AuthServiceClient calls AuthService.
type AuthServiceClient struct {
	register       *connect.Client[RegisterRequest, RegisterResponse]
	login          *connect.Client[LoginRequest, LoginResponse]
	logout         *connect.Client[LogoutRequest, LogoutResponse]
	getCurrentUser *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
}

// NewAuthServiceClient returns a client for the service at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &AuthServiceClient{
		register:       connect.NewClient[RegisterRequest, RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:          connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		logout:         connect.NewClient[LogoutRequest, LogoutResponse](httpClient, baseURL+AuthServiceLogoutProcedure, opts...),
		getCurrentUser: connect.NewClient[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

func (c *AuthServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Logout(ctx context.Context, req *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *AuthServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// LedgerServiceClient calls LedgerService.
type LedgerServiceClient struct {
	listParticipants  *connect.Client[ListParticipantsRequest, ListParticipantsResponse]
	addParticipant    *connect.Client[AddParticipantRequest, AddParticipantResponse]
	removeParticipant *connect.Client[RemoveParticipantRequest, RemoveParticipantResponse]
	listExpenses      *connect.Client[ListExpensesRequest, ListExpensesResponse]
	createExpense     *connect.Client[CreateExpenseRequest, CreateExpenseResponse]
	updateExpense     *connect.Client[UpdateExpenseRequest, UpdateExpenseResponse]
	deleteExpense     *connect.Client[DeleteExpenseRequest, DeleteExpenseResponse]
	exportExpenses    *connect.Client[ExportExpensesRequest, ExportExpensesResponse]
	getSummary        *connect.Client[GetSummaryRequest, GetSummaryResponse]
	auditBalances     *connect.Client[AuditBalancesRequest, AuditBalancesResponse]
	rebuildBalances   *connect.Client[RebuildBalancesRequest, RebuildBalancesResponse]
}

// NewLedgerServiceClient returns a client for the service at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &LedgerServiceClient{
		listParticipants:  connect.NewClient[ListParticipantsRequest, ListParticipantsResponse](httpClient, baseURL+LedgerServiceListParticipantsProcedure, opts...),
		addParticipant:    connect.NewClient[AddParticipantRequest, AddParticipantResponse](httpClient, baseURL+LedgerServiceAddParticipantProcedure, opts...),
		removeParticipant: connect.NewClient[RemoveParticipantRequest, RemoveParticipantResponse](httpClient, baseURL+LedgerServiceRemoveParticipantProcedure, opts...),
		listExpenses:      connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		createExpense:     connect.NewClient[CreateExpenseRequest, CreateExpenseResponse](httpClient, baseURL+LedgerServiceCreateExpenseProcedure, opts...),
		updateExpense:     connect.NewClient[UpdateExpenseRequest, UpdateExpenseResponse](httpClient, baseURL+LedgerServiceUpdateExpenseProcedure, opts...),
		deleteExpense:     connect.NewClient[DeleteExpenseRequest, DeleteExpenseResponse](httpClient, baseURL+LedgerServiceDeleteExpenseProcedure, opts...),
		exportExpenses:    connect.NewClient[ExportExpensesRequest, ExportExpensesResponse](httpClient, baseURL+LedgerServiceExportExpensesProcedure, opts...),
		getSummary:        connect.NewClient[GetSummaryRequest, GetSummaryResponse](httpClient, baseURL+LedgerServiceGetSummaryProcedure, opts...),
		auditBalances:     connect.NewClient[AuditBalancesRequest, AuditBalancesResponse](httpClient, baseURL+LedgerServiceAuditBalancesProcedure, opts...),
		rebuildBalances:   connect.NewClient[RebuildBalancesRequest, RebuildBalancesResponse](httpClient, baseURL+LedgerServiceRebuildBalancesProcedure, opts...),
	}
}

func (c *LedgerServiceClient) ListParticipants(ctx context.Context, req *connect.Request[ListParticipantsRequest]) (*connect.Response[ListParticipantsResponse], error) {
	return c.listParticipants.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) AddParticipant(ctx context.Context, req *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[RemoveParticipantRequest]) (*connect.Response[RemoveParticipantResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ExportExpenses(ctx context.Context, req *connect.Request[ExportExpensesRequest]) (*connect.Response[ExportExpensesResponse], error) {
	return c.exportExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) AuditBalances(ctx context.Context, req *connect.Request[AuditBalancesRequest]) (*connect.Response[AuditBalancesResponse], error) {
	return c.auditBalances.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RebuildBalances(ctx context.Context, req *connect.Request[RebuildBalancesRequest]) (*connect.Response[RebuildBalancesResponse], error) {
	return c.rebuildBalances.CallUnary(ctx, req)
}
