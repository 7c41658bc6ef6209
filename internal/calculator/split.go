package calculator

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when a split cannot be computed.
var ErrInvalidInput = errors.New("invalid split input")

// ComputeShares splits amount evenly across participants.
// Every participant is assigned amount / len(participants); no rounding to
// currency precision is applied.
func ComputeShares(amount float64, participants []string) (map[string]float64, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: must have at least one participant", ErrInvalidInput)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %v", ErrInvalidInput, amount)
	}

	share := amount / float64(len(participants))
	shares := make(map[string]float64, len(participants))
	for _, p := range participants {
		if _, dup := shares[p]; dup {
			return nil, fmt.Errorf("%w: duplicate participant %q", ErrInvalidInput, p)
		}
		shares[p] = share
	}

	return shares, nil
}
