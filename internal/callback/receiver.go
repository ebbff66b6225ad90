// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package callback receives the identity provider's redirect on a loopback
// HTTP server and hands the authorization code to the waiting login flow.
package callback

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"alphastocks/cli/internal/logging"
	"alphastocks/cli/internal/nav"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pterm/pterm"
)

// ErrMissingCode is returned when the redirect carries neither a code nor an error.
var ErrMissingCode = errors.New("callback: redirect carried no authorization code")

// ProviderError is an error reported by the identity provider on the redirect.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("identity provider: %s: %s", e.Code, e.Description)
	}
	return "identity provider: " + e.Code
}

type result struct {
	code string
	err  error
}

// Receiver is a one-shot callback server.
type Receiver struct {
	ln  net.Listener
	srv *http.Server
	log *pterm.Logger

	once   sync.Once
	result chan result
}

var page = template.Must(template.New("page").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>Alpha Stocks</title></head>
<body style="font-family:sans-serif;text-align:center;margin-top:4em">
<h2>{{.Title}}</h2><p>{{.Message}}</p>
</body></html>
`))

// Listen binds the host and port of origin, e.g. "http://127.0.0.1:4200".
func Listen(origin string, log *pterm.Logger) (*Receiver, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("callback origin: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("callback origin %q has no host", origin)
	}
	host := u.Host
	if u.Port() == "" {
		host = net.JoinHostPort(u.Hostname(), "80")
	}
	ln, err := net.Listen("tcp", host)
	if err != nil {
		return nil, fmt.Errorf("listen for callback on %s: %w", host, err)
	}
	return Serve(ln, log), nil
}

// Serve starts a receiver on ln.
func Serve(ln net.Listener, log *pterm.Logger) *Receiver {
	if log == nil {
		log = logging.Discard()
	}
	r := &Receiver{ln: ln, log: log, result: make(chan result, 1)}
	r.srv = &http.Server{Handler: r.router(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := r.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.deliver(result{err: err})
		}
	}()
	return r
}

// Addr returns the bound address.
func (r *Receiver) Addr() string {
	return r.ln.Addr().String()
}

func (r *Receiver) router() chi.Router {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.NoCache)
	mux.Get(nav.Callback, r.handleCallback)
	return mux
}

func (r *Receiver) handleCallback(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	res := result{code: q.Get("code")}
	switch {
	case q.Get("error") != "":
		res = result{err: &ProviderError{Code: q.Get("error"), Description: q.Get("error_description")}}
	case res.code == "":
		res = result{err: ErrMissingCode}
	}

	if !r.deliver(res) {
		r.render(w, http.StatusGone, "Already handled", "This sign-in link has already been used. You can close this window.")
		return
	}
	if res.err != nil {
		r.log.Debug("Callback rejected", r.log.Args("error", res.err.Error()))
		r.render(w, http.StatusBadRequest, "Sign-in failed", "Return to the terminal for details.")
		return
	}
	r.log.Debug("Callback received")
	r.render(w, http.StatusOK, "Signed in", "You can close this window and return to the terminal.")
}

func (r *Receiver) render(w http.ResponseWriter, status int, title, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = page.Execute(w, struct{ Title, Message string }{title, msg})
}

// deliver records the first result and reports whether res was it.
func (r *Receiver) deliver(res result) bool {
	delivered := false
	r.once.Do(func() {
		r.result <- res
		delivered = true
	})
	return delivered
}

// Wait blocks until the first callback arrives or ctx ends, then shuts the
// server down.
func (r *Receiver) Wait(ctx context.Context) (string, error) {
	defer r.Close()
	select {
	case res := <-r.result:
		return res.code, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close shuts the server down, allowing in-flight responses a moment to finish.
func (r *Receiver) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return r.srv.Shutdown(ctx)
}
