package ledger

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/session"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/memory"
)

// countingStore counts participant listings, one per ledger load.
type countingStore struct {
	storage.Store
	loads atomic.Int32
}

func (s *countingStore) ListParticipants(ctx context.Context, ownerID string) ([]*models.Participant, error) {
	s.loads.Add(1)
	return s.Store.ListParticipants(ctx, ownerID)
}

func TestRegistryGet(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: memory.New()}
	reg := NewRegistry(store, Options{Logger: quietLogger()})

	var wg sync.WaitGroup
	got := make([]*Reconciler, 16)
	errs := make([]error, len(got))
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], errs[i] = reg.Get(ctx, "owner-1")
		}(i)
	}
	wg.Wait()

	for i, r := range got {
		require.NoError(t, errs[i])
		require.Same(t, got[0], r)
	}
	require.Equal(t, 1, reg.Loaded())

	other, err := reg.Get(ctx, "owner-2")
	require.NoError(t, err)
	require.NotSame(t, got[0], other)
	require.NotEqual(t, got[0].SelfID(), other.SelfID())
	require.Equal(t, 2, reg.Loaded())
}

func TestRegistryFollowsSessions(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: memory.New()}
	reg := NewRegistry(store, Options{Logger: quietLogger()})

	notifier := session.NewNotifier()
	unsubscribe := notifier.Subscribe(reg.HandleSessionEvent)
	defer unsubscribe()

	notifier.Publish(ctx, session.Event{Kind: session.SignedIn, UserID: "owner-1"})
	require.Equal(t, 1, reg.Loaded())
	require.EqualValues(t, 1, store.loads.Load())

	r, err := reg.Get(ctx, "owner-1")
	require.NoError(t, err)
	require.EqualValues(t, 1, store.loads.Load())
	_, err = r.AddParticipant(ctx, "Alice")
	require.NoError(t, err)

	notifier.Publish(ctx, session.Event{Kind: session.SignedOut, UserID: "owner-1"})
	require.Zero(t, reg.Loaded())

	reloaded, err := reg.Get(ctx, "owner-1")
	require.NoError(t, err)
	require.NotSame(t, r, reloaded)
	require.EqualValues(t, 2, store.loads.Load())
	require.Len(t, reloaded.Participants(), 2)
}

func TestRegistryRejectsEmptyOwner(t *testing.T) {
	reg := NewRegistry(memory.New(), Options{Logger: quietLogger()})
	_, err := reg.Get(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Zero(t, reg.Loaded())
}

// cancelAwareStore fails listings when the caller's context is done.
type cancelAwareStore struct {
	storage.Store
}

func (s *cancelAwareStore) ListParticipants(ctx context.Context, ownerID string) ([]*models.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Store.ListParticipants(ctx, ownerID)
}

func TestRegistryLoadIgnoresCallerCancellation(t *testing.T) {
	reg := NewRegistry(&cancelAwareStore{Store: memory.New()}, Options{Logger: quietLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := reg.Get(ctx, "owner-1")
	require.NoError(t, err)
	require.NotEmpty(t, r.SelfID())
	require.Equal(t, 1, reg.Loaded())
}

func TestEvictedReconcilerStaysConsistent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	reg := NewRegistry(store, Options{Logger: quietLogger()})

	before, err := reg.Get(ctx, "owner-1")
	require.NoError(t, err)
	alice := mustAdd(t, before, "Alice")

	// Sign-out drops the instance while a request still holds it.
	reg.Evict("owner-1")
	after, err := reg.Get(ctx, "owner-1")
	require.NoError(t, err)
	require.NotSame(t, before, after)

	in := ExpenseInput{Description: "Pizza", Amount: 20, Category: "Food", ParticipantIDs: []string{alice.ID}}
	_, err = before.CreateExpense(ctx, in)
	require.NoError(t, err)
	_, err = after.CreateExpense(ctx, in)
	require.NoError(t, err)

	require.Len(t, after.Expenses(""), 2)
	require.Equal(t, -20.0, balanceOf(t, after, alice.ID))

	reloaded, err := Load(ctx, store, "owner-1", Options{Logger: quietLogger()})
	require.NoError(t, err)
	require.Empty(t, reloaded.Audit())
	require.Len(t, reloaded.Expenses(""), 2)
	require.Equal(t, -20.0, balanceOf(t, reloaded, alice.ID))
}

func TestConcurrentInstancesKeepBalances(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	reg := NewRegistry(store, Options{Logger: quietLogger()})

	first, err := reg.Get(ctx, "owner-1")
	require.NoError(t, err)
	alice := mustAdd(t, first, "Alice")
	reg.Evict("owner-1")
	second, err := reg.Get(ctx, "owner-1")
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		r := first
		if i%2 == 1 {
			r = second
		}
		wg.Add(1)
		go func(i int, r *Reconciler) {
			defer wg.Done()
			_, errs[i] = r.CreateExpense(ctx, ExpenseInput{
				Description:    "Coffee",
				Amount:         4,
				Category:       "Food",
				ParticipantIDs: []string{alice.ID},
			})
		}(i, r)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	reloaded, err := Load(ctx, store, "owner-1", Options{Logger: quietLogger()})
	require.NoError(t, err)
	require.Empty(t, reloaded.Audit())
	require.Len(t, reloaded.Expenses(""), writers)
	require.InDelta(t, -2.0*writers, balanceOf(t, reloaded, alice.ID), 1e-9)
}
