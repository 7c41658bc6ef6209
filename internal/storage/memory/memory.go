// Package memory provides an in-process implementation of storage.Store.
// Data lives for the lifetime of the process; it backs local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type state struct {
	participants []*models.Participant
	expenses     []*models.Expense
	users        []*models.User
}

type backend struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   *state
}

// txLog collects the inverse of every write made inside one transaction.
type txLog struct {
	undo []func(*state)
}

// Store keeps every record in memory.
type Store struct {
	b  *backend
	tx *txLog
}

// New returns an empty store.
func New() *Store {
	return &Store{b: &backend{st: &state{}}}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// WithTx runs fn and, if it fails, undoes the writes fn made through its store
// in reverse order. Writes made outside the transaction are kept.
// Transactions are serialized; nested calls join the outer one.
func (s *Store) WithTx(ctx context.Context, fn func(storage.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	s.b.txMu.Lock()
	defer s.b.txMu.Unlock()

	log := &txLog{}
	if err := fn(&Store{b: s.b, tx: log}); err != nil {
		s.b.mu.Lock()
		for i := len(log.undo) - 1; i >= 0; i-- {
			log.undo[i](s.b.st)
		}
		s.b.mu.Unlock()
		return err
	}
	return nil
}

// record registers undo when s belongs to a transaction. Callers hold b.mu.
func (s *Store) record(undo func(*state)) {
	if s.tx != nil {
		s.tx.undo = append(s.tx.undo, undo)
	}
}

func indexOfParticipant(st *state, id string) int {
	for i, p := range st.participants {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func indexOfExpense(st *state, id string) int {
	for i, e := range st.expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// reinsert puts v back at i, or at the end when the slice has shrunk since.
func reinsert[T any](items []T, i int, v T) []T {
	if i > len(items) {
		i = len(items)
	}
	return append(items[:i:i], append([]T{v}, items[i:]...)...)
}

// CreateParticipant stores a copy of p, filling ID and CreatedAt when empty.
func (s *Store) CreateParticipant(_ context.Context, p *models.Participant) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}
	for _, existing := range s.b.st.participants {
		if existing.ID == p.ID {
			return fmt.Errorf("participant %s already exists", p.ID)
		}
		if p.IsSelf && existing.IsSelf && existing.OwnerID == p.OwnerID {
			return fmt.Errorf("owner %s already has a self participant", p.OwnerID)
		}
	}
	s.b.st.participants = append(s.b.st.participants, p.Clone())
	id := p.ID
	s.record(func(st *state) {
		if i := indexOfParticipant(st, id); i >= 0 {
			st.participants = append(st.participants[:i:i], st.participants[i+1:]...)
		}
	})
	return nil
}

func (s *Store) ListParticipants(_ context.Context, ownerID string) ([]*models.Participant, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	var out []*models.Participant
	for _, p := range s.b.st.participants {
		if p.OwnerID == ownerID {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (s *Store) UpdateParticipant(_ context.Context, p *models.Participant) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	for _, existing := range s.b.st.participants {
		if existing.ID == p.ID {
			prev := existing.Clone()
			existing.Name = p.Name
			existing.Balance = p.Balance
			s.record(func(st *state) {
				if i := indexOfParticipant(st, prev.ID); i >= 0 {
					st.participants[i].Name = prev.Name
					st.participants[i].Balance = prev.Balance
				}
			})
			return nil
		}
	}
	return fmt.Errorf("participant %s: %w", p.ID, storage.ErrNotFound)
}

func (s *Store) DeleteParticipant(_ context.Context, participantID string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	for i, existing := range s.b.st.participants {
		if existing.ID == participantID {
			s.b.st.participants = append(s.b.st.participants[:i:i], s.b.st.participants[i+1:]...)
			s.record(func(st *state) {
				st.participants = reinsert(st.participants, i, existing)
			})
			return nil
		}
	}
	return fmt.Errorf("participant %s: %w", participantID, storage.ErrNotFound)
}

// CreateExpense stores a copy of e, filling ID and CreatedAt when empty.
func (s *Store) CreateExpense(_ context.Context, e *models.Expense) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	s.b.st.expenses = append(s.b.st.expenses, e.Clone())
	id := e.ID
	s.record(func(st *state) {
		if i := indexOfExpense(st, id); i >= 0 {
			st.expenses = append(st.expenses[:i:i], st.expenses[i+1:]...)
		}
	})
	return nil
}

func (s *Store) ListExpenses(_ context.Context, ownerID string) ([]*models.Expense, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	var out []*models.Expense
	for _, e := range s.b.st.expenses {
		if e.CreatedBy == ownerID {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

func (s *Store) UpdateExpense(_ context.Context, e *models.Expense) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	for i, existing := range s.b.st.expenses {
		if existing.ID == e.ID {
			updated := e.Clone()
			updated.CreatedBy = existing.CreatedBy
			updated.CreatedAt = existing.CreatedAt
			s.b.st.expenses[i] = updated
			s.record(func(st *state) {
				if j := indexOfExpense(st, existing.ID); j >= 0 {
					st.expenses[j] = existing
				}
			})
			return nil
		}
	}
	return fmt.Errorf("expense %s: %w", e.ID, storage.ErrNotFound)
}

func (s *Store) DeleteExpense(_ context.Context, expenseID string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	for i, existing := range s.b.st.expenses {
		if existing.ID == expenseID {
			s.b.st.expenses = append(s.b.st.expenses[:i:i], s.b.st.expenses[i+1:]...)
			s.record(func(st *state) {
				st.expenses = reinsert(st.expenses, i, existing)
			})
			return nil
		}
	}
	return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	for _, u := range s.b.st.users {
		if u.Email == user.Email {
			return fmt.Errorf("email %s already registered", user.Email)
		}
	}
	c := *user
	s.b.st.users = append(s.b.st.users, &c)
	s.record(func(st *state) {
		for i, u := range st.users {
			if u == &c {
				st.users = append(st.users[:i:i], st.users[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.Email == email }), nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.ID == id }), nil
}

func (s *Store) findUser(match func(*models.User) bool) *models.User {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	for _, u := range s.b.st.users {
		if match(u) {
			c := *u
			return &c
		}
	}
	return nil
}
