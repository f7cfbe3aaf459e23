package app

import (
	"sync"

	"github.com/example/tasktracker/internal/core/route"
	"github.com/example/tasktracker/internal/ports/primary"
)

// NavigatorImpl implements the Navigator interface.
type NavigatorImpl struct {
	mu          sync.Mutex
	current     string
	subscribers map[int]func(string)
	nextSubID   int
}

// NewNavigator creates a Navigator positioned at the route for fragment.
func NewNavigator(fragment string) *NavigatorImpl {
	return &NavigatorImpl{
		current:     route.FromFragment(fragment),
		subscribers: make(map[int]func(string)),
	}
}

// Navigate moves to the route for fragment. Subscribers are notified only when
// the route actually changes.
func (n *NavigatorImpl) Navigate(fragment string) string {
	next := route.FromFragment(fragment)

	n.mu.Lock()
	changed := next != n.current
	n.current = next
	var fns []func(string)
	if changed {
		for _, fn := range n.subscribers {
			fns = append(fns, fn)
		}
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
	return next
}

// CurrentRoute returns the current route key.
func (n *NavigatorImpl) CurrentRoute() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Subscribe registers fn for route changes.
func (n *NavigatorImpl) Subscribe(fn func(string)) func() {
	n.mu.Lock()
	id := n.nextSubID
	n.nextSubID++
	n.subscribers[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subscribers, id)
		n.mu.Unlock()
	}
}

var _ primary.Navigator = (*NavigatorImpl)(nil)
