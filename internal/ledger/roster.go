package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const (
	opAddParticipant    = "add_participant"
	opRemoveParticipant = "remove_participant"
)

// AddParticipant appends a new participant with a zero balance.
func (r *Reconciler) AddParticipant(ctx context.Context, name string) (*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		r.observe(opAddParticipant, metrics.OutcomeRejected)
		return nil, fmt.Errorf("%w: participant name is required", ErrInvalidInput)
	}

	p := &models.Participant{OwnerID: r.ownerID, Name: name}
	err := r.mutate(ctx, opAddParticipant, func(tx storage.Store) error {
		return tx.CreateParticipant(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	r.participants = append(r.participants, p)
	r.observe(opAddParticipant, metrics.OutcomeOK)

	r.logger.Info("Participant added", "participant_id", p.ID, "name", p.Name)
	ev := events.New(events.ParticipantAdded, r.ownerID)
	ev.ParticipantID = p.ID
	r.publish(ctx, ev)

	return p.Clone(), nil
}

// RemoveParticipant deletes a participant from the roster.
// The self participant and participants still splitting a live expense cannot be removed.
func (r *Reconciler) RemoveParticipant(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var p *models.Participant
	err := r.mutate(ctx, opRemoveParticipant, func(tx storage.Store) error {
		p = r.findParticipant(id)
		if p == nil {
			return fmt.Errorf("%w: %s", ErrParticipantNotFound, id)
		}
		if p.IsSelf {
			return fmt.Errorf("%w: %s", ErrSelfParticipant, id)
		}

		var outstanding int
		for _, e := range r.expenses {
			if e.Includes(id) {
				outstanding++
			}
		}
		if outstanding > 0 {
			return fmt.Errorf("%w: %s splits %d live expense(s)", ErrOutstandingShares, p.Name, outstanding)
		}

		return tx.DeleteParticipant(ctx, id)
	})
	if err != nil {
		return err
	}

	for i, existing := range r.participants {
		if existing.ID == id {
			r.participants = append(r.participants[:i:i], r.participants[i+1:]...)
			break
		}
	}
	r.observe(opRemoveParticipant, metrics.OutcomeOK)

	r.logger.Info("Participant removed", "participant_id", id, "name", p.Name)
	ev := events.New(events.ParticipantRemoved, r.ownerID)
	ev.ParticipantID = id
	r.publish(ctx, ev)

	return nil
}
