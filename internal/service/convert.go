package service

import (
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/mmynk/splitledger/internal/api"
	"github.com/mmynk/splitledger/internal/models"
)

func toAPIParticipant(p *models.Participant) *api.Participant {
	return &api.Participant{
		Id:        p.ID,
		Name:      p.Name,
		Balance:   p.Balance,
		IsSelf:    p.IsSelf,
		CreatedAt: timestamppb.New(time.Unix(p.CreatedAt, 0)),
	}
}

func toAPIParticipants(ps []*models.Participant) []*api.Participant {
	out := make([]*api.Participant, len(ps))
	for i, p := range ps {
		out[i] = toAPIParticipant(p)
	}
	return out
}

func toAPIExpense(e *models.Expense) *api.Expense {
	return &api.Expense{
		Id:             e.ID,
		Description:    e.Description,
		Amount:         e.Amount,
		Category:       string(e.Category),
		ParticipantIds: e.Participants,
		Shares:         e.ShareOwed,
		CreatedAt:      timestamppb.New(time.Unix(e.CreatedAt, 0)),
	}
}
