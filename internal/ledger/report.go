package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const (
	opRebuildBalances = "rebuild_balances"

	// balanceTolerance absorbs float noise from incremental updates.
	balanceTolerance = 1e-9
)

// Standing labels for a balance.
const (
	StandingOwes   = "owes"
	StandingIsOwed = "is owed"
)

// BalanceLine is one participant's row in a Summary.
type BalanceLine struct {
	ParticipantID string
	Name          string
	IsSelf        bool
	Balance       float64
	// Display is the absolute balance with two decimals, e.g. "10.00".
	Display string
	// Standing is StandingOwes for negative balances, StandingIsOwed otherwise.
	Standing string
}

// Summary is the roster's balances plus the total spent.
type Summary struct {
	Total        float64
	TotalDisplay string
	ExpenseCount int
	Balances     []BalanceLine
}

// Summary reports every participant's balance and the sum of all expense amounts.
func (r *Reconciler) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := decimal.Zero
	for _, e := range r.expenses {
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	totalFloat, _ := total.Float64()

	s := Summary{
		Total:        totalFloat,
		TotalDisplay: total.StringFixed(2),
		ExpenseCount: len(r.expenses),
		Balances:     make([]BalanceLine, len(r.participants)),
	}
	for i, p := range r.participants {
		standing := StandingIsOwed
		if p.Balance < 0 {
			standing = StandingOwes
		}
		s.Balances[i] = BalanceLine{
			ParticipantID: p.ID,
			Name:          p.Name,
			IsSelf:        p.IsSelf,
			Balance:       p.Balance,
			Display:       decimal.NewFromFloat(math.Abs(p.Balance)).StringFixed(2),
			Standing:      standing,
		}
	}
	return s
}

// Export writes the expenses in category (all when empty) as CSV:
// a Description,Amount,Category header followed by one row per expense.
func (r *Reconciler) Export(w io.Writer, category models.Category) error {
	expenses := r.Expenses(category)

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Description", "Amount", "Category"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, e := range expenses {
		row := []string{
			e.Description,
			decimal.NewFromFloat(e.Amount).String(),
			string(e.Category),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	return nil
}

func (r *Reconciler) derivedBalances() (cached, derived map[string]float64) {
	inputs := make([]calculator.ExpenseForBalance, len(r.expenses))
	for i, e := range r.expenses {
		inputs[i] = calculator.ExpenseForBalance{Participants: e.Participants, Shares: e.ShareOwed}
	}
	derived = calculator.DeriveBalances(inputs, r.selfID)

	cached = make(map[string]float64, len(r.participants))
	for _, p := range r.participants {
		cached[p.ID] = p.Balance
	}
	return cached, derived
}

// Audit lists participants whose cached balance disagrees with the balance
// derived from the live expenses. An empty result means the ledger is consistent.
func (r *Reconciler) Audit() []calculator.Drift {
	r.mu.Lock()
	defer r.mu.Unlock()

	cached, derived := r.derivedBalances()
	return calculator.CompareBalances(cached, derived, balanceTolerance)
}

// Rebuild overwrites every drifted balance with the value derived from the
// live expenses and returns how many participants changed.
func (r *Reconciler) Rebuild(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated []*models.Participant
	err := r.mutate(ctx, opRebuildBalances, func(tx storage.Store) error {
		cached, derived := r.derivedBalances()
		for _, d := range calculator.CompareBalances(cached, derived, balanceTolerance) {
			p := r.findParticipant(d.ParticipantID)
			if p == nil {
				r.logger.Warn("Expense references a participant missing from the roster", "participant_id", d.ParticipantID)
				continue
			}
			c := p.Clone()
			c.Balance = d.Derived
			updated = append(updated, c)
		}
		return persistBalances(ctx, tx, updated)
	})
	if err != nil {
		return 0, err
	}
	if len(updated) == 0 {
		r.observe(opRebuildBalances, metrics.OutcomeNoop)
		return 0, nil
	}

	r.commitParticipants(updated)
	r.observe(opRebuildBalances, metrics.OutcomeOK)
	r.logger.Info("Balances rebuilt", "changed", len(updated))
	r.publish(ctx, events.New(events.BalancesRebuilt, r.ownerID))

	return len(updated), nil
}
