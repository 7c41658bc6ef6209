package calculator

import (
	"math"
	"testing"
)

func TestDeriveBalances(t *testing.T) {
	expenses := []ExpenseForBalance{
		{
			Participants: []string{"me", "alice"},
			Shares:       map[string]float64{"me": 10, "alice": 10},
		},
		{
			Participants: []string{"me", "alice", "bob"},
			Shares:       map[string]float64{"me": 5, "alice": 5, "bob": 5},
		},
	}

	balances := DeriveBalances(expenses, "me")

	if _, ok := balances["me"]; ok {
		t.Errorf("self should not carry a balance, got %v", balances["me"])
	}
	if math.Abs(balances["alice"]-(-15)) > 0.0001 {
		t.Errorf("alice = %v, want -15", balances["alice"])
	}
	if math.Abs(balances["bob"]-(-5)) > 0.0001 {
		t.Errorf("bob = %v, want -5", balances["bob"])
	}
}

func TestDeriveBalancesEmpty(t *testing.T) {
	if got := DeriveBalances(nil, "me"); len(got) != 0 {
		t.Errorf("DeriveBalances(nil) = %v, want empty", got)
	}
}

func TestCompareBalances(t *testing.T) {
	cached := map[string]float64{
		"alice": -10,
		"bob":   -3,
		"carol": 0,
	}
	derived := map[string]float64{
		"alice": -10.0000000001,
		"bob":   -5,
		"dave":  -2,
	}

	drifts := CompareBalances(cached, derived, 1e-9)

	if len(drifts) != 2 {
		t.Fatalf("got %d drifts, want 2: %+v", len(drifts), drifts)
	}
	if drifts[0].ParticipantID != "bob" || drifts[0].Cached != -3 || drifts[0].Derived != -5 {
		t.Errorf("drifts[0] = %+v, want bob -3/-5", drifts[0])
	}
	if drifts[1].ParticipantID != "dave" || drifts[1].Derived != -2 {
		t.Errorf("drifts[1] = %+v, want dave 0/-2", drifts[1])
	}
}
