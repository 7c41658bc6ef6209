// Package events publishes ledger lifecycle notifications.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Type names a ledger event; it doubles as the AMQP routing key.
type Type string

const (
	ExpenseCreated     Type = "expense.created"
	ExpenseUpdated     Type = "expense.updated"
	ExpenseDeleted     Type = "expense.deleted"
	ParticipantAdded   Type = "participant.added"
	ParticipantRemoved Type = "participant.removed"
	BalancesRebuilt    Type = "balances.rebuilt"
)

// Event is a lightweight notification; consumers fetch full records by ID.
type Event struct {
	Type          Type      `json:"type"`
	OwnerID       string    `json:"owner_id"`
	ExpenseID     string    `json:"expense_id,omitempty"`
	ParticipantID string    `json:"participant_id,omitempty"`
	Amount        float64   `json:"amount,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// New stamps an event with the current time.
func New(t Type, ownerID string) Event {
	return Event{Type: t, OwnerID: ownerID, Timestamp: time.Now().UTC()}
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes an event published by ToJSON.
func FromJSON(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
