package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/api"
	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
)

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService exposes the caller's ledger over Connect. Every procedure
// acts on the ledger of the authenticated user.
type LedgerService struct {
	ledgers *ledger.Registry
	logger  *slog.Logger
}

// NewLedgerService creates a ledger service over the given registry.
func NewLedgerService(ledgers *ledger.Registry, logger *slog.Logger) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerService{ledgers: ledgers, logger: logger}
}

// ledgerFor resolves the caller's reconciler.
func (s *LedgerService) ledgerFor(ctx context.Context) (*ledger.Reconciler, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	rec, err := s.ledgers.Get(ctx, userID)
	if err != nil {
		return nil, s.toConnectError("load ledger", err)
	}
	return rec, nil
}

// toConnectError maps ledger errors onto Connect codes.
func (s *LedgerService) toConnectError(operation string, err error) error {
	var code connect.Code
	switch {
	case errors.Is(err, ledger.ErrInvalidInput),
		errors.Is(err, ledger.ErrUnknownParticipant),
		errors.Is(err, models.ErrInvalidCategory):
		code = connect.CodeInvalidArgument
	case errors.Is(err, ledger.ErrParticipantNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, ledger.ErrSelfParticipant),
		errors.Is(err, ledger.ErrOutstandingShares):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, context.Canceled):
		code = connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	case errors.Is(err, ledger.ErrPersistence):
		code = connect.CodeUnavailable
	default:
		code = connect.CodeInternal
	}

	if code == connect.CodeUnavailable || code == connect.CodeInternal {
		s.logger.Error("Ledger operation failed", "operation", operation, "error", err)
	} else {
		s.logger.Warn("Ledger operation rejected", "operation", operation, "code", code, "error", err)
	}
	return connect.NewError(code, err)
}

// ListParticipants returns the roster, self first.
func (s *LedgerService) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	rec, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ListParticipantsResponse{
		Participants: toAPIParticipants(rec.Participants()),
	}), nil
}

// AddParticipant appends a participant with a zero balance.
func (s *LedgerService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	rec, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	p, err := rec.AddParticipant(ctx, req.Msg.Name)
	if err != nil {
		return nil, s.toConnectError("add participant", err)
	}
	return connect.NewResponse(&api.AddParticipantResponse{Participant: toAPIParticipant(p)}), nil
}

// RemoveParticipant drops a participant who splits no live expense.
func (s *LedgerService) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	if req.Msg.ParticipantId == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("participant_id required"))
	}
	rec, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	if err := rec.RemoveParticipant(ctx, req.Msg.ParticipantId); err != nil {
		return nil, s.toConnectError("remove participant", err)
	}
	return connect.NewResponse(&api.RemoveParticipantResponse{}), nil
}

// ListExpenses returns the live expenses, optionally limited to one category.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	category, err := parseFilter(req.Msg.Category)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	rec, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	expenses := rec.Expenses(category)
	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// CreateExpense records an expense split equally among its participants.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	rec, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := rec.CreateExpense(ctx, ledger.ExpenseInput{
		Description:    req.Msg.Description,
		Amount:         req.Msg.Amount,
		Category:       req.Msg.Category,
		ParticipantIDs: req.Msg.ParticipantIds,
	})
	if err != nil {
		return nil, s.toConnectError("create expense", err)
	}

	return connect.NewResponse(&api.CreateExpenseResponse{
		Expense:      toAPIExpense(expense),
		Participants: toAPIParticipants(rec.Participants()),
	}), nil
}

// UpdateExpense edits an expense in place. Applied is false when the expense
// was already deleted.
func (s *LedgerService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	if req.Msg.ExpenseId == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("expense_id required"))
	}
	rec, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := rec.EditExpense(ctx, req.Msg.ExpenseId, ledger.ExpenseInput{
		Description:    req.Msg.Description,
		Amount:         req.Msg.Amount,
		Category:       req.Msg.Category,
		ParticipantIDs: req.Msg.ParticipantIds,
	})
	if err != nil {
		return nil, s.toConnectError("update expense", err)
	}
	if expense == nil {
		return connect.NewResponse(&api.UpdateExpenseResponse{Applied: false}), nil
	}

	return connect.NewResponse(&api.UpdateExpenseResponse{
		Applied:      true,
		Expense:      toAPIExpense(expense),
		Participants: toAPIParticipants(rec.Participants()),
	}), nil
}

// DeleteExpense removes an expense and refunds its shares. Deleted is false
// when the expense was already gone.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	if req.Msg.ExpenseId == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("expense_id required"))
	}
	rec, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	deleted, err := rec.DeleteExpense(ctx, req.Msg.ExpenseId)
	if err != nil {
		return nil, s.toConnectError("delete expense", err)
	}

	resp := &api.DeleteExpenseResponse{Deleted: deleted}
	if deleted {
		resp.Participants = toAPIParticipants(rec.Participants())
	}
	return connect.NewResponse(resp), nil
}

// ExportExpenses renders the (optionally filtered) expenses as CSV.
func (s *LedgerService) ExportExpenses(ctx context.Context, req *connect.Request[api.ExportExpensesRequest]) (*connect.Response[api.ExportExpensesResponse], error) {
	category, err := parseFilter(req.Msg.Category)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	rec, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := rec.Export(&buf, category); err != nil {
		return nil, s.toConnectError("export expenses", err)
	}

	return connect.NewResponse(&api.ExportExpensesResponse{
		Filename:    exportFilename(category, time.Now()),
		ContentType: "text/csv",
		Csv:         buf.String(),
	}), nil
}

// GetSummary reports the total spent and every participant's standing.
func (s *LedgerService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	rec, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	summary := rec.Summary()
	lines := make([]*api.BalanceLine, len(summary.Balances))
	for i, b := range summary.Balances {
		lines[i] = &api.BalanceLine{
			ParticipantId: b.ParticipantID,
			Name:          b.Name,
			IsSelf:        b.IsSelf,
			Balance:       b.Balance,
			Display:       b.Display,
			Standing:      b.Standing,
		}
	}
	return connect.NewResponse(&api.GetSummaryResponse{
		Total:        summary.Total,
		TotalDisplay: summary.TotalDisplay,
		ExpenseCount: int32(summary.ExpenseCount),
		Balances:     lines,
	}), nil
}

// AuditBalances compares cached balances with those derived from the expenses.
func (s *LedgerService) AuditBalances(ctx context.Context, req *connect.Request[api.AuditBalancesRequest]) (*connect.Response[api.AuditBalancesResponse], error) {
	rec, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	drifts := rec.Audit()
	out := make([]*api.Drift, len(drifts))
	for i, d := range drifts {
		out[i] = &api.Drift{ParticipantId: d.ParticipantID, Cached: d.Cached, Derived: d.Derived}
	}
	if len(drifts) > 0 {
		s.logger.Warn("Balance drift detected", "owner_id", rec.OwnerID(), "participants", len(drifts))
	}
	return connect.NewResponse(&api.AuditBalancesResponse{Consistent: len(drifts) == 0, Drifts: out}), nil
}

// RebuildBalances rewrites drifted balances from the expenses.
func (s *LedgerService) RebuildBalances(ctx context.Context, req *connect.Request[api.RebuildBalancesRequest]) (*connect.Response[api.RebuildBalancesResponse], error) {
	rec, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	changed, err := rec.Rebuild(ctx)
	if err != nil {
		return nil, s.toConnectError("rebuild balances", err)
	}
	return connect.NewResponse(&api.RebuildBalancesResponse{Changed: int32(changed)}), nil
}

// parseFilter accepts an empty category as "all".
func parseFilter(category string) (models.Category, error) {
	if strings.TrimSpace(category) == "" {
		return "", nil
	}
	return models.ParseCategory(category)
}

func exportFilename(category models.Category, now time.Time) string {
	name := "expenses"
	if category != "" {
		name += "-" + strings.ToLower(string(category))
	}
	return name + "-" + now.Format("2006-01-02") + ".csv"
}
