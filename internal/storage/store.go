// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ParticipantStore persists roster entries, scoped by owner.
type ParticipantStore interface {
	// CreateParticipant persists a new participant.
	// The participant.ID and CreatedAt fields are populated by the store when empty.
	CreateParticipant(ctx context.Context, participant *models.Participant) error

	// ListParticipants returns the owner's participants in creation order.
	ListParticipants(ctx context.Context, ownerID string) ([]*models.Participant, error)

	// UpdateParticipant replaces the participant's name and balance.
	// Returns ErrNotFound if the participant does not exist.
	UpdateParticipant(ctx context.Context, participant *models.Participant) error

	// DeleteParticipant removes a participant.
	// Returns ErrNotFound if the participant does not exist.
	DeleteParticipant(ctx context.Context, participantID string) error
}

// ExpenseStore persists expenses and their shares, scoped by owner.
type ExpenseStore interface {
	// CreateExpense persists a new expense.
	// The expense.ID and CreatedAt fields are populated by the store when empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpenses returns the owner's expenses in creation order.
	ListExpenses(ctx context.Context, ownerID string) ([]*models.Expense, error)

	// UpdateExpense replaces an expense's mutable fields and shares.
	// Returns ErrNotFound if the expense does not exist.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense.
	// Returns ErrNotFound if the expense does not exist.
	DeleteExpense(ctx context.Context, expenseID string) error
}

// UserStore persists registered accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns nil, nil when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID returns nil, nil when no user has the ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, in-memory, etc.)
// without changing the ledger or service layers.
type Store interface {
	ParticipantStore
	ExpenseStore
	UserStore

	// WithTx runs fn against a store whose writes are applied atomically:
	// either every write made through the passed Store persists or none does.
	WithTx(ctx context.Context, fn func(Store) error) error

	// Close releases any resources held by the store.
	Close() error
}
