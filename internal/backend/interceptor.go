package backend

import (
	"context"
	"net/http"
	"sync"

	"alphastocks/cli/internal/logging"
	"alphastocks/cli/internal/modal"
	"alphastocks/cli/internal/nav"

	"github.com/pterm/pterm"
	"golang.org/x/sync/singleflight"
)

// SessionTerminator ends the local session. The auth service implements it.
type SessionTerminator interface {
	Logout(ctx context.Context) error
}

// Navigator moves the application to a route. Navigating to the current
// route must be a no-op.
type Navigator interface {
	Navigate(route string) bool
}

// Notifier shows a transient notice.
type Notifier interface {
	Open(message string)
}

type skipKey struct{}

// WithoutInterception marks requests made with ctx as exempt from the
// interceptor's 401/403 handling.
func WithoutInterception(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipKey{}, true)
}

// Exempt reports whether ctx was marked by WithoutInterception.
func Exempt(ctx context.Context) bool {
	v, _ := ctx.Value(skipKey{}).(bool)
	return v
}

// Interceptor is the http.RoundTripper every gateway request passes through.
//
// Successful responses and transport errors pass through untouched. A 403
// opens the modal notice. A 401 ends the session through the bound
// SessionTerminator, whatever the outcome of that logout, and navigates to
// the landing route. Concurrent 401s share a single logout and navigation.
// In every case the original response is returned to the caller.
type Interceptor struct {
	next   http.RoundTripper
	nav    Navigator
	notify Notifier
	log    *pterm.Logger

	mu      sync.RWMutex
	session SessionTerminator

	flight singleflight.Group
}

// NewInterceptor wraps next. A nil next uses http.DefaultTransport.
func NewInterceptor(next http.RoundTripper, navigator Navigator, notifier Notifier, log *pterm.Logger) *Interceptor {
	if next == nil {
		next = http.DefaultTransport
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Interceptor{next: next, nav: navigator, notify: notifier, log: log}
}

// Bind sets the session ended on 401. The auth service is constructed on top
// of a client using this interceptor, so binding happens after construction.
func (i *Interceptor) Bind(s SessionTerminator) {
	i.mu.Lock()
	i.session = s
	i.mu.Unlock()
}

func (i *Interceptor) bound() SessionTerminator {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.session
}

// RoundTrip implements http.RoundTripper.
func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := i.next.RoundTrip(req)
	if err != nil || Exempt(req.Context()) {
		return resp, err
	}

	switch resp.StatusCode {
	case http.StatusForbidden:
		i.log.Info("Access forbidden, showing notice", i.log.Args("path", req.URL.Path))
		if i.notify != nil {
			i.notify.Open(modal.AccessForbidden)
		}
	case http.StatusUnauthorized:
		i.log.Info("Unauthorized response received, logging out", i.log.Args("path", req.URL.Path))
		i.forceLogout(req.Context())
	}
	return resp, nil
}

// forceLogout runs at most one logout-and-land sequence at a time.
func (i *Interceptor) forceLogout(reqCtx context.Context) {
	_, _, _ = i.flight.Do("logout", func() (any, error) {
		ctx := WithoutInterception(context.WithoutCancel(reqCtx))
		if s := i.bound(); s != nil {
			if err := s.Logout(ctx); err != nil {
				i.log.Warn("Forced logout failed", i.log.Args("error", logging.Mask(err.Error())))
			}
		}
		if i.nav != nil {
			i.nav.Navigate(nav.Landing)
		}
		return nil, nil
	})
}
