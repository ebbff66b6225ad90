// Package nav tracks the CLI's current route.
//
// Routes mirror the screens of the trading client. Protected routes are only
// reachable while the session is authenticated; the navigator watches the
// authentication stream and falls back to the landing route when the session
// ends. Navigating to the route already current is a no-op, which makes
// redirects idempotent.
package nav

import (
	"strings"
	"sync"
	"sync/atomic"

	"alphastocks/cli/internal/observe"
)

// Routes.
const (
	Landing     = "/auth"
	Callback    = "/callback"
	Search      = "/search"
	Order       = "/order"
	Transaction = "/order/transaction"
	Portfolio   = "/portfolio"
)

var known = map[string]bool{
	Landing:     true,
	Callback:    true,
	Search:      true,
	Order:       true,
	Transaction: true,
	Portfolio:   true,
}

// Protected reports whether route requires an authenticated session.
func Protected(route string) bool {
	r := Resolve(route)
	return r != Landing && r != Callback
}

// Resolve normalizes route. Empty and unknown routes resolve to Landing.
func Resolve(route string) string {
	r := strings.TrimSpace(route)
	if r == "" {
		return Landing
	}
	if !strings.HasPrefix(r, "/") {
		r = "/" + r
	}
	r = strings.TrimRight(r, "/")
	if !known[r] {
		return Landing
	}
	return r
}

// AuthState is the subset of the auth service the navigator needs.
type AuthState interface {
	AuthState(fn func(bool)) *observe.Subscription
}

// Navigator holds the current route.
type Navigator struct {
	mu            sync.Mutex
	authenticated bool
	route         *observe.Value[string]
	navigations   atomic.Int64
	sub           *observe.Subscription
}

// New returns a navigator positioned on Landing.
func New() *Navigator {
	return &Navigator{route: observe.New(Landing)}
}

// Guard subscribes the navigator to auth. While unauthenticated, protected
// routes redirect to Landing, and the navigator lands whenever the stream
// turns false.
func (n *Navigator) Guard(auth AuthState) {
	n.sub = auth.AuthState(func(ok bool) {
		n.mu.Lock()
		n.authenticated = ok
		n.mu.Unlock()
		if !ok {
			n.Navigate(Landing)
		}
	})
}

// Close releases the auth subscription.
func (n *Navigator) Close() {
	n.sub.Unsubscribe()
}

// Navigate moves to route and reports whether the current route changed.
func (n *Navigator) Navigate(route string) bool {
	target := Resolve(route)

	n.mu.Lock()
	if Protected(target) && !n.authenticated {
		target = Landing
	}
	n.mu.Unlock()

	if !n.route.PublishIfChanged(target) {
		return false
	}
	n.navigations.Add(1)
	return true
}

// Current returns the current route.
func (n *Navigator) Current() string {
	return n.route.Current()
}

// Route subscribes fn to route changes, replaying the current route.
func (n *Navigator) Route(fn func(string)) *observe.Subscription {
	return n.route.Subscribe(fn)
}

// Navigations returns how many times the route actually changed.
func (n *Navigator) Navigations() int64 {
	return n.navigations.Load()
}
