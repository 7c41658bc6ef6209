package calculator

import (
	"errors"
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestComputeShares(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		participants []string
		wantErr      bool
		validateFunc func(t *testing.T, shares map[string]float64)
	}{
		{
			name:         "two-person even split",
			amount:       20.0,
			participants: []string{"me", "alice"},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				for _, p := range []string{"me", "alice"} {
					if math.Abs(shares[p]-10.0) > 0.0001 {
						t.Errorf("%s share = %v, want 10.0", p, shares[p])
					}
				}
			},
		},
		{
			name:         "three-way split keeps the fraction",
			amount:       10.0,
			participants: []string{"me", "alice", "bob"},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				// 10 / 3 is not rounded to cents
				for _, p := range []string{"me", "alice", "bob"} {
					if shares[p] != 10.0/3 {
						t.Errorf("%s share = %v, want %v", p, shares[p], 10.0/3)
					}
				}
			},
		},
		{
			name:         "single participant owes everything",
			amount:       42.5,
			participants: []string{"me"},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				if len(shares) != 1 || shares["me"] != 42.5 {
					t.Errorf("shares = %v, want me:42.5", shares)
				}
			},
		},
		{
			name:         "no participants should error",
			amount:       10.0,
			participants: []string{},
			wantErr:      true,
		},
		{
			name:         "zero amount should error",
			amount:       0,
			participants: []string{"me"},
			wantErr:      true,
		},
		{
			name:         "negative amount should error",
			amount:       -5,
			participants: []string{"me"},
			wantErr:      true,
		},
		{
			name:         "NaN amount should error",
			amount:       math.NaN(),
			participants: []string{"me"},
			wantErr:      true,
		},
		{
			name:         "infinite amount should error",
			amount:       math.Inf(1),
			participants: []string{"me"},
			wantErr:      true,
		},
		{
			name:         "duplicate participant should error",
			amount:       10.0,
			participants: []string{"me", "alice", "alice"},
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := ComputeShares(tt.amount, tt.participants)
			if (err != nil) != tt.wantErr {
				t.Errorf("ComputeShares() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ComputeShares() error = %v, want ErrInvalidInput", err)
			}
			if !tt.wantErr && tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}

func TestComputeSharesSumsToAmount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		amount := rapid.Float64Range(0.01, 1_000_000).Draw(t, "amount")
		n := rapid.IntRange(1, 50).Draw(t, "n")
		participants := make([]string, n)
		for i := range participants {
			participants[i] = string(rune('a'+i%26)) + string(rune('A'+i/26))
		}

		shares, err := ComputeShares(amount, participants)
		if err != nil {
			t.Fatalf("ComputeShares(%v, %d participants) error: %v", amount, n, err)
		}
		if len(shares) != n {
			t.Fatalf("got %d shares, want %d", len(shares), n)
		}

		var sum float64
		for _, p := range participants {
			if shares[p] != amount/float64(n) {
				t.Fatalf("share of %s = %v, want %v", p, shares[p], amount/float64(n))
			}
			sum += shares[p]
		}
		if math.Abs(sum-amount) > 1e-9*amount {
			t.Fatalf("sum of shares = %v, want %v", sum, amount)
		}
	})
}
