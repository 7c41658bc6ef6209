// Package ledger keeps an owner's roster and expenses and the balances derived from them.
//
// Every mutation re-reads the owner's ledger inside a single store transaction,
// computes on copies and applies them to memory only after the transaction commits.
// Two reconcilers for the same owner therefore never overwrite each other's
// balances, and a store failure never leaves memory diverged from the store.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// DefaultSelfName labels the self participant when Options.SelfName is empty.
const DefaultSelfName = "me"

// Options configures reconcilers. Zero values are usable.
type Options struct {
	// SelfName is the name given to a newly provisioned self participant.
	SelfName string
	// Publisher receives lifecycle events after each committed mutation.
	Publisher events.Publisher
	// Metrics counts operations; nil disables counting.
	Metrics *metrics.Metrics
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.SelfName == "" {
		o.SelfName = DefaultSelfName
	}
	if o.Publisher == nil {
		o.Publisher = events.Nop{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Reconciler owns one owner's participants and expenses.
// Its methods are safe for concurrent use; operations run one at a time.
type Reconciler struct {
	mu      sync.Mutex
	store   storage.Store
	ownerID string
	opts    Options
	logger  *slog.Logger

	selfID       string
	participants []*models.Participant // self first, then insertion order
	expenses     []*models.Expense
}

// Load reads the owner's ledger from store, provisioning the self participant
// when the owner has none yet.
func Load(ctx context.Context, store storage.Store, ownerID string, opts Options) (*Reconciler, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner ID is required", ErrInvalidInput)
	}
	opts = opts.withDefaults()

	r := &Reconciler{
		store:   store,
		ownerID: ownerID,
		opts:    opts,
		logger:  opts.Logger.With("owner_id", ownerID),
	}

	participants, err := store.ListParticipants(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list participants: %w", ErrPersistence, err)
	}

	self, rest := splitSelf(participants)
	if self == nil {
		self = &models.Participant{OwnerID: ownerID, Name: opts.SelfName, IsSelf: true}
		if err := store.CreateParticipant(ctx, self); err != nil {
			return nil, fmt.Errorf("%w: provision self participant: %w", ErrPersistence, err)
		}
		r.logger.Info("Provisioned self participant", "participant_id", self.ID, "name", self.Name)
	}

	r.selfID = self.ID
	r.participants = append([]*models.Participant{self}, rest...)

	expenses, err := store.ListExpenses(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list expenses: %w", ErrPersistence, err)
	}
	r.expenses = expenses

	r.logger.Debug("Ledger loaded",
		"participants", len(r.participants),
		"expenses", len(r.expenses),
	)
	return r, nil
}

// splitSelf separates the first self participant from the rest of the roster.
func splitSelf(participants []*models.Participant) (*models.Participant, []*models.Participant) {
	var self *models.Participant
	rest := make([]*models.Participant, 0, len(participants))
	for _, p := range participants {
		if p.IsSelf && self == nil {
			self = p
			continue
		}
		rest = append(rest, p)
	}
	return self, rest
}

// refresh replaces the in-memory roster and expenses with what tx reads back.
// Another reconciler for the same owner may have committed since this one loaded.
func (r *Reconciler) refresh(ctx context.Context, tx storage.Store) error {
	participants, err := tx.ListParticipants(ctx, r.ownerID)
	if err != nil {
		return fmt.Errorf("list participants: %w", err)
	}
	self, rest := splitSelf(participants)
	if self == nil || self.ID != r.selfID {
		return fmt.Errorf("self participant %s is missing", r.selfID)
	}
	expenses, err := tx.ListExpenses(ctx, r.ownerID)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}

	r.participants = append([]*models.Participant{self}, rest...)
	r.expenses = expenses
	return nil
}

// mutate runs fn in a store transaction on freshly read state. Rejections from
// fn are counted and returned as is; any other error is a persistence failure.
// Callers hold r.mu and apply their changes to memory once mutate returns nil.
func (r *Reconciler) mutate(ctx context.Context, operation string, fn func(tx storage.Store) error) error {
	err := r.store.WithTx(ctx, func(tx storage.Store) error {
		if err := r.refresh(ctx, tx); err != nil {
			return err
		}
		return fn(tx)
	})
	switch {
	case err == nil:
		return nil
	case isRejection(err):
		r.observe(operation, metrics.OutcomeRejected)
		return err
	default:
		return r.persistenceFailure(operation, err)
	}
}

// OwnerID returns the user the ledger belongs to.
func (r *Reconciler) OwnerID() string { return r.ownerID }

// SelfID returns the ID of the self participant.
func (r *Reconciler) SelfID() string { return r.selfID }

// Participants returns copies of the roster, self first.
func (r *Reconciler) Participants() []*models.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.Participant, len(r.participants))
	for i, p := range r.participants {
		out[i] = p.Clone()
	}
	return out
}

// Participant returns a copy of one roster entry.
func (r *Reconciler) Participant(id string) (*models.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p := r.findParticipant(id); p != nil {
		return p.Clone(), true
	}
	return nil, false
}

func (r *Reconciler) findParticipant(id string) *models.Participant {
	for _, p := range r.participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Reconciler) expenseIndex(id string) int {
	for i, e := range r.expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// withDeltas returns updated copies of the participants named in deltas.
// The self participant is never adjusted.
func (r *Reconciler) withDeltas(deltas map[string]float64) []*models.Participant {
	var updated []*models.Participant
	for _, p := range r.participants {
		delta, ok := deltas[p.ID]
		if !ok || p.ID == r.selfID {
			continue
		}
		c := p.Clone()
		c.Balance += delta
		updated = append(updated, c)
	}
	return updated
}

// commitParticipants swaps the in-memory roster entries for their updated copies.
func (r *Reconciler) commitParticipants(updated []*models.Participant) {
	for _, u := range updated {
		for i, p := range r.participants {
			if p.ID == u.ID {
				r.participants[i] = u
				break
			}
		}
	}
}

func persistBalances(ctx context.Context, tx storage.Store, updated []*models.Participant) error {
	for _, p := range updated {
		if err := tx.UpdateParticipant(ctx, p); err != nil {
			return fmt.Errorf("update balance of %s: %w", p.ID, err)
		}
	}
	return nil
}

// publish delivers e after a committed mutation. Failures are logged only.
func (r *Reconciler) publish(ctx context.Context, e events.Event) {
	if err := r.opts.Publisher.Publish(ctx, e); err != nil {
		r.logger.Warn("Failed to publish ledger event", "type", e.Type, "error", err)
	}
}

func (r *Reconciler) observe(operation, outcome string) {
	r.opts.Metrics.ObserveOperation(operation, outcome)
}

// persistenceFailure logs and wraps a store error.
func (r *Reconciler) persistenceFailure(operation string, err error) error {
	r.observe(operation, metrics.OutcomeFailed)
	r.logger.Error("Ledger write failed", "operation", operation, "error", err)
	return fmt.Errorf("%w: %s: %w", ErrPersistence, operation, err)
}
