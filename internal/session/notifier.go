// Package session broadcasts sign-in and sign-out transitions.
package session

import (
	"context"
	"sync"
)

// Kind is the direction of an identity change.
type Kind int

const (
	SignedIn Kind = iota + 1
	SignedOut
)

func (k Kind) String() string {
	switch k {
	case SignedIn:
		return "signed_in"
	case SignedOut:
		return "signed_out"
	default:
		return "unknown"
	}
}

// Event reports that UserID signed in or out.
type Event struct {
	Kind   Kind
	UserID string
}

// Listener reacts to an identity change.
type Listener func(ctx context.Context, e Event)

// Notifier fans identity changes out to its listeners.
// Listeners run synchronously, in subscription order.
type Notifier struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]Listener
	order     []int
}

// NewNotifier returns a notifier with no listeners.
func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[int]Listener)}
}

// Subscribe registers fn and returns a function that unregisters it.
func (n *Notifier) Subscribe(fn Listener) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	n.order = append(n.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.listeners, id)
			for i, v := range n.order {
				if v == id {
					n.order = append(n.order[:i:i], n.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers e to every listener. A nil Notifier drops the event.
func (n *Notifier) Publish(ctx context.Context, e Event) {
	if n == nil {
		return
	}
	n.mu.RLock()
	listeners := make([]Listener, 0, len(n.order))
	for _, id := range n.order {
		listeners = append(listeners, n.listeners[id])
	}
	n.mu.RUnlock()

	for _, fn := range listeners {
		fn(ctx, e)
	}
}
