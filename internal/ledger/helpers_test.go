package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/memory"
)

var errStoreDown = errors.New("store down")

// flakyStore fails balance and expense writes while failing is set.
type flakyStore struct {
	storage.Store
	failing *bool
}

func (s *flakyStore) WithTx(ctx context.Context, fn func(storage.Store) error) error {
	return s.Store.WithTx(ctx, func(tx storage.Store) error {
		return fn(&flakyStore{Store: tx, failing: s.failing})
	})
}

func (s *flakyStore) UpdateParticipant(ctx context.Context, p *models.Participant) error {
	if *s.failing {
		return errStoreDown
	}
	return s.Store.UpdateParticipant(ctx, p)
}

func (s *flakyStore) DeleteParticipant(ctx context.Context, id string) error {
	if *s.failing {
		return errStoreDown
	}
	return s.Store.DeleteParticipant(ctx, id)
}

func (s *flakyStore) CreateParticipant(ctx context.Context, p *models.Participant) error {
	if *s.failing {
		return errStoreDown
	}
	return s.Store.CreateParticipant(ctx, p)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestReconciler(t *testing.T, store storage.Store) *Reconciler {
	t.Helper()
	if store == nil {
		store = memory.New()
	}
	r, err := Load(context.Background(), store, "owner-1", Options{Logger: quietLogger()})
	require.NoError(t, err)
	return r
}

func mustAdd(t *testing.T, r *Reconciler, name string) *models.Participant {
	t.Helper()
	p, err := r.AddParticipant(context.Background(), name)
	require.NoError(t, err)
	return p
}

func balanceOf(t *testing.T, r *Reconciler, id string) float64 {
	t.Helper()
	p, ok := r.Participant(id)
	require.True(t, ok, "participant %s not found", id)
	return p.Balance
}
