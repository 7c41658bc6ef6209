package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestCodecKeepsTimestamps(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	in := &Expense{
		Id:             "e1",
		Description:    "Dinner",
		Amount:         42.5,
		Category:       "Food",
		ParticipantIds: []string{"p1", "p2"},
		Shares:         map[string]float64{"p1": 21.25, "p2": 21.25},
		CreatedAt:      timestamppb.New(created),
	}

	data, err := Codec{}.Marshal(in)
	require.NoError(t, err)
	require.Contains(t, string(data), `"participantIds":["p1","p2"]`)

	var out Expense
	require.NoError(t, Codec{}.Unmarshal(data, &out))
	require.True(t, out.CreatedAt.AsTime().Equal(created))
	require.Equal(t, in.Shares, out.Shares)
}

func TestCodecEmptyBody(t *testing.T) {
	var req ListExpensesRequest
	require.NoError(t, Codec{}.Unmarshal(nil, &req))
	require.Empty(t, req.Category)

	require.Error(t, Codec{}.Unmarshal([]byte("{"), &req))
	require.Equal(t, "json", Codec{}.Name())
}
