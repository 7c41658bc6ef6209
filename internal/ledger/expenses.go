package ledger

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const (
	opCreateExpense = "create_expense"
	opEditExpense   = "edit_expense"
	opDeleteExpense = "delete_expense"
)

// ExpenseInput is the caller-supplied part of an expense.
type ExpenseInput struct {
	Description string
	Amount      float64
	Category    string
	// ParticipantIDs lists who splits the expense. The self participant is
	// always included and placed first; duplicates are ignored.
	ParticipantIDs []string
}

type normalizedExpense struct {
	description  string
	amount       float64
	category     models.Category
	participants []string
	shares       map[string]float64
}

func (r *Reconciler) normalize(in ExpenseInput) (*normalizedExpense, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be a positive number", ErrInvalidInput)
	}
	category, err := models.ParseCategory(in.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	participants := []string{r.selfID}
	seen := map[string]bool{r.selfID: true}
	for _, id := range in.ParticipantIDs {
		if seen[id] {
			continue
		}
		if r.findParticipant(id) == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParticipant, id)
		}
		seen[id] = true
		participants = append(participants, id)
	}

	shares, err := calculator.ComputeShares(in.Amount, participants)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return &normalizedExpense{
		description:  description,
		amount:       in.Amount,
		category:     category,
		participants: participants,
		shares:       shares,
	}, nil
}

// CreateExpense records a new expense and charges every non-self participant their share.
func (r *Reconciler) CreateExpense(ctx context.Context, in ExpenseInput) (*models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		expense *models.Expense
		updated []*models.Participant
	)
	err := r.mutate(ctx, opCreateExpense, func(tx storage.Store) error {
		n, err := r.normalize(in)
		if err != nil {
			return err
		}

		expense = &models.Expense{
			Description:  n.description,
			Amount:       n.amount,
			Category:     n.category,
			Participants: n.participants,
			ShareOwed:    n.shares,
			CreatedBy:    r.ownerID,
		}

		deltas := make(map[string]float64, len(n.participants))
		for _, id := range n.participants {
			deltas[id] -= n.shares[id]
		}
		updated = r.withDeltas(deltas)

		if err := tx.CreateExpense(ctx, expense); err != nil {
			return err
		}
		return persistBalances(ctx, tx, updated)
	})
	if err != nil {
		return nil, err
	}

	r.expenses = append(r.expenses, expense)
	r.commitParticipants(updated)
	r.observe(opCreateExpense, metrics.OutcomeOK)

	r.logger.Info("Expense created",
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"participants", len(expense.Participants),
	)
	ev := events.New(events.ExpenseCreated, r.ownerID)
	ev.ExpenseID = expense.ID
	ev.Amount = expense.Amount
	r.publish(ctx, ev)

	return expense.Clone(), nil
}

// EditExpense replaces an expense's description, amount, category and participants.
// The old shares are reversed and the new ones applied, so balances keep matching
// the live expense set. An unknown ID is a no-op and returns nil, nil.
func (r *Reconciler) EditExpense(ctx context.Context, id string, in ExpenseInput) (*models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		idx     = -1
		next    *models.Expense
		updated []*models.Participant
	)
	err := r.mutate(ctx, opEditExpense, func(tx storage.Store) error {
		idx = r.expenseIndex(id)
		if idx < 0 {
			return nil
		}
		old := r.expenses[idx]

		n, err := r.normalize(in)
		if err != nil {
			return err
		}

		next = old.Clone()
		next.Description = n.description
		next.Amount = n.amount
		next.Category = n.category
		next.Participants = n.participants
		next.ShareOwed = n.shares

		deltas := make(map[string]float64)
		for _, pid := range old.Participants {
			deltas[pid] += old.ShareOwed[pid]
		}
		for _, pid := range next.Participants {
			deltas[pid] -= next.ShareOwed[pid]
		}
		updated = r.withDeltas(deltas)

		if err := tx.UpdateExpense(ctx, next); err != nil {
			return err
		}
		return persistBalances(ctx, tx, updated)
	})
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		r.observe(opEditExpense, metrics.OutcomeNoop)
		r.logger.Debug("Edit of unknown expense ignored", "expense_id", id)
		return nil, nil
	}

	r.expenses[idx] = next
	r.commitParticipants(updated)
	r.observe(opEditExpense, metrics.OutcomeOK)

	r.logger.Info("Expense updated",
		"expense_id", next.ID,
		"amount", next.Amount,
		"participants", len(next.Participants),
	)
	ev := events.New(events.ExpenseUpdated, r.ownerID)
	ev.ExpenseID = next.ID
	ev.Amount = next.Amount
	r.publish(ctx, ev)

	return next.Clone(), nil
}

// DeleteExpense removes an expense and refunds each non-self participant the
// share stored on it. It reports false when the ID is unknown.
func (r *Reconciler) DeleteExpense(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		idx     = -1
		old     *models.Expense
		updated []*models.Participant
	)
	err := r.mutate(ctx, opDeleteExpense, func(tx storage.Store) error {
		idx = r.expenseIndex(id)
		if idx < 0 {
			return nil
		}
		old = r.expenses[idx]

		deltas := make(map[string]float64, len(old.Participants))
		for _, pid := range old.Participants {
			deltas[pid] += old.ShareOwed[pid]
		}
		updated = r.withDeltas(deltas)

		if err := tx.DeleteExpense(ctx, id); err != nil {
			return err
		}
		return persistBalances(ctx, tx, updated)
	})
	if err != nil {
		return false, err
	}
	if idx < 0 {
		r.observe(opDeleteExpense, metrics.OutcomeNoop)
		r.logger.Debug("Delete of unknown expense ignored", "expense_id", id)
		return false, nil
	}

	r.expenses = append(r.expenses[:idx:idx], r.expenses[idx+1:]...)
	r.commitParticipants(updated)
	r.observe(opDeleteExpense, metrics.OutcomeOK)

	r.logger.Info("Expense deleted", "expense_id", id, "amount", old.Amount)
	ev := events.New(events.ExpenseDeleted, r.ownerID)
	ev.ExpenseID = id
	ev.Amount = old.Amount
	r.publish(ctx, ev)

	return true, nil
}

// Expense returns a copy of one live expense.
func (r *Reconciler) Expense(id string) (*models.Expense, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx := r.expenseIndex(id); idx >= 0 {
		return r.expenses[idx].Clone(), true
	}
	return nil, false
}

// Expenses returns copies of the live expenses in the given category, in
// recording order. An empty category returns every expense.
func (r *Reconciler) Expenses(category models.Category) []*models.Expense {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.filterExpenses(category)
}

func (r *Reconciler) filterExpenses(category models.Category) []*models.Expense {
	out := make([]*models.Expense, 0, len(r.expenses))
	for _, e := range r.expenses {
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, e.Clone())
	}
	return out
}
