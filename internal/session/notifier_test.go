package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotifier(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	n := NewNotifier()

	var got []string
	unsubA := n.Subscribe(func(_ context.Context, e Event) {
		got = append(got, "a:"+e.Kind.String()+":"+e.UserID)
	})
	n.Subscribe(func(_ context.Context, e Event) {
		got = append(got, "b:"+e.Kind.String())
	})

	n.Publish(ctx, Event{Kind: SignedIn, UserID: "u1"})
	require.Equal(t, []string{"a:signed_in:u1", "b:signed_in"}, got)

	unsubA()
	unsubA() // idempotent
	got = nil
	n.Publish(ctx, Event{Kind: SignedOut, UserID: "u1"})
	require.Equal(t, []string{"b:signed_out"}, got)
}

func TestKindString(t *testing.T) {
	t.Parallel()
	require.Equal(t, "unknown", Kind(0).String())
}
