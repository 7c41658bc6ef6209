package calculator

import (
	"math"
	"sort"
)

// ExpenseForBalance represents an expense with the minimal information needed for balance calculations.
type ExpenseForBalance struct {
	Participants []string
	Shares       map[string]float64
}

// Drift describes a participant whose cached balance disagrees with the expense set.
type Drift struct {
	ParticipantID string
	Cached        float64
	Derived       float64
}

// DeriveBalances recomputes every participant's balance from the live expenses.
//
// Algorithm:
// - Each participant other than selfID owes their share: balance -= share
// - selfID never owes itself and always ends at zero
//
// Participants that appear in no expense are absent from the result.
func DeriveBalances(expenses []ExpenseForBalance, selfID string) map[string]float64 {
	balances := make(map[string]float64)
	for _, e := range expenses {
		for _, p := range e.Participants {
			if p == selfID {
				continue
			}
			balances[p] -= e.Shares[p]
		}
	}
	return balances
}

// CompareBalances returns the participants whose cached balance differs from the
// derived one by more than tolerance, ordered by participant ID.
// A participant missing from derived is expected to have a zero balance.
func CompareBalances(cached, derived map[string]float64, tolerance float64) []Drift {
	var drifts []Drift
	for id, c := range cached {
		d := derived[id]
		if math.Abs(c-d) > tolerance {
			drifts = append(drifts, Drift{ParticipantID: id, Cached: c, Derived: d})
		}
	}
	for id, d := range derived {
		if _, ok := cached[id]; ok {
			continue
		}
		if math.Abs(d) > tolerance {
			drifts = append(drifts, Drift{ParticipantID: id, Derived: d})
		}
	}

	sort.Slice(drifts, func(i, j int) bool {
		return drifts[i].ParticipantID < drifts[j].ParticipantID
	})
	return drifts
}
