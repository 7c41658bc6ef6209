package ledger

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mmynk/splitledger/internal/session"
	"github.com/mmynk/splitledger/internal/storage"
)

// Registry hands out one Reconciler per owner, loading each on first use.
type Registry struct {
	store storage.Store
	opts  Options

	mu      sync.Mutex
	ledgers map[string]*Reconciler
	loads   singleflight.Group
}

// NewRegistry returns an empty registry backed by store.
func NewRegistry(store storage.Store, opts Options) *Registry {
	return &Registry{
		store:   store,
		opts:    opts.withDefaults(),
		ledgers: make(map[string]*Reconciler),
	}
}

// Get returns the owner's reconciler, loading it from the store if needed.
// Concurrent first calls for the same owner share a single load; the load
// ignores cancellation of whichever caller started it.
func (r *Registry) Get(ctx context.Context, ownerID string) (*Reconciler, error) {
	r.mu.Lock()
	rec, ok := r.ledgers[ownerID]
	r.mu.Unlock()
	if ok {
		return rec, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := r.loads.Do(ownerID, func() (any, error) {
		r.mu.Lock()
		if rec, ok := r.ledgers[ownerID]; ok {
			r.mu.Unlock()
			return rec, nil
		}
		r.mu.Unlock()

		rec, err := Load(loadCtx, r.store, ownerID, r.opts)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.ledgers[ownerID] = rec
		r.mu.Unlock()
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Reconciler), nil
}

// Evict drops the owner's cached reconciler; the next Get reloads it.
// A caller still holding the dropped instance can keep using it: mutations
// re-read the store, so both instances stay consistent with it.
func (r *Registry) Evict(ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ledgers, ownerID)
}

// Loaded reports how many owners currently have a reconciler in memory.
func (r *Registry) Loaded() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ledgers)
}

// HandleSessionEvent loads the ledger on sign-in and drops it on sign-out.
func (r *Registry) HandleSessionEvent(ctx context.Context, e session.Event) {
	switch e.Kind {
	case session.SignedIn:
		if _, err := r.Get(ctx, e.UserID); err != nil {
			r.opts.Logger.Error("Failed to load ledger on sign-in", "owner_id", e.UserID, "error", err)
		}
	case session.SignedOut:
		r.Evict(e.UserID)
		r.opts.Logger.Debug("Ledger evicted on sign-out", "owner_id", e.UserID)
	}
}
