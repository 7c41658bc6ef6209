package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	t.Parallel()

	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		require.Equal(t, c, got)
	}

	got, err := ParseCategory("  travel ")
	require.NoError(t, err)
	require.Equal(t, CategoryTravel, got)

	_, err = ParseCategory("Groceries")
	require.ErrorIs(t, err, ErrInvalidCategory)

	_, err = ParseCategory("")
	require.ErrorIs(t, err, ErrInvalidCategory)
}

func TestExpenseClone(t *testing.T) {
	t.Parallel()

	e := &Expense{
		ID:           "e1",
		Amount:       20,
		Participants: []string{"me", "alice"},
		ShareOwed:    map[string]float64{"me": 10, "alice": 10},
	}
	c := e.Clone()
	c.Participants[0] = "bob"
	c.ShareOwed["alice"] = 99

	require.Equal(t, "me", e.Participants[0])
	require.Equal(t, 10.0, e.ShareOwed["alice"])
	require.True(t, e.Includes("alice"))
	require.False(t, e.Includes("bob"))
}

func TestNewUser(t *testing.T) {
	t.Parallel()

	u := NewUser("a@example.com", "Alice", "hash")
	require.NotEmpty(t, u.ID)
	require.NotZero(t, u.CreatedAt)
	require.Equal(t, u.CreatedAt, u.UpdatedAt)
}
