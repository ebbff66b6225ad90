// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth owns the client's authentication state. It starts the Dex
// redirect login, completes it by exchanging the authorization code with the
// gateway, ends sessions, and publishes every transition on a single
// authentication stream. The logged-in marker is mirrored in the OS keychain
// so a restarted CLI resumes the session.
package auth

import (
	"context"
	"errors"

	"alphastocks/cli/internal/backend"
	"alphastocks/cli/internal/config"
	"alphastocks/cli/internal/logging"
	"alphastocks/cli/internal/observe"

	"github.com/pterm/pterm"
	"golang.org/x/oauth2"
)

// Errors surfaced to the user. Transport detail is logged, not returned.
var (
	ErrExchangeFailed = errors.New("sign-in could not be completed, please try again")
	ErrLogoutFailed   = errors.New("logout could not be confirmed by the server, local session cleared")
	ErrLoginFailed    = errors.New("login failed")
)

// Scopes requested from the identity provider.
var Scopes = []string{"openid", "profile", "email"}

// Browser opens a URL for the user.
type Browser interface {
	Open(url string) error
}

// BrowserFunc adapts a function to Browser.
type BrowserFunc func(url string) error

// Open calls f(url).
func (f BrowserFunc) Open(url string) error { return f(url) }

// Service centralizes authentication operations against the gateway and the
// session store.
type Service struct {
	be      backend.API
	store   *Store
	oauth   *oauth2.Config
	browser Browser
	log     *pterm.Logger
}

// NewService constructs a Service. browser may be nil when the caller prints
// the authorization URL itself.
func NewService(be backend.API, store *Store, dex config.DexConfig, browser Browser, log *pterm.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{
		be:    be,
		store: store,
		oauth: &oauth2.Config{
			ClientID:    dex.ClientID,
			RedirectURL: dex.RedirectURL(),
			Scopes:      Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  dex.AuthURL(),
				TokenURL: dex.TokenURL(),
			},
		},
		browser: browser,
		log:     log,
	}
}

// AuthCodeURL returns the identity provider's authorize URL for the
// authorization-code flow.
func (s *Service) AuthCodeURL() string {
	return s.oauth.AuthCodeURL("")
}

// LoginWithDex sends the user to the identity provider. It does not touch
// the authentication state; the session starts when the code is exchanged.
func (s *Service) LoginWithDex() (string, error) {
	u := s.AuthCodeURL()
	s.log.Debug("Redirecting to identity provider", s.log.Args("url", u))
	if s.browser == nil {
		return u, nil
	}
	return u, s.browser.Open(u)
}

// ExchangeCode trades an authorization code for a gateway session. On
// success the session is persisted and true is emitted. Any failure clears
// the session, emits false and returns ErrExchangeFailed. If ctx ends before
// the gateway answers, the state is left untouched and ctx's error returned.
func (s *Service) ExchangeCode(ctx context.Context, code string) error {
	err := s.be.ExchangeCode(ctx, code)
	if ctx.Err() != nil {
		s.log.Debug("Code exchange abandoned", s.log.Args("reason", ctx.Err().Error()))
		return ctx.Err()
	}
	if err != nil {
		s.log.Warn("Code exchange failed", s.log.Args("error", logging.Mask(err.Error())))
		_ = s.store.Clear()
		return ErrExchangeFailed
	}
	if err := s.store.SetLoggedIn(""); err != nil {
		s.log.Warn("Failed to persist session", s.log.Args("error", err.Error()))
		return ErrExchangeFailed
	}
	s.log.Info("Signed in")
	return nil
}

// Logout asks the gateway to end the session and clears it locally whatever
// the gateway answers. The request is exempt from the 401 interceptor so a
// forced logout never triggers another. A gateway failure is reported as
// ErrLogoutFailed after the local state is already cleared.
func (s *Service) Logout(ctx context.Context) error {
	remoteErr := s.be.Logout(backend.WithoutInterception(ctx))
	localErr := s.store.Clear()
	if remoteErr != nil {
		s.log.Warn("Logout request failed", s.log.Args("error", logging.Mask(remoteErr.Error())))
		return ErrLogoutFailed
	}
	return localErr
}

// LoginWithUsername is the legacy username login. On success the username is
// stored and true is emitted; on failure the session is cleared.
func (s *Service) LoginWithUsername(ctx context.Context, username string) error {
	if username == "" {
		return ErrLoginFailed
	}
	err := s.be.Login(ctx, username)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		s.log.Warn("Login failed", s.log.Args("error", logging.Mask(err.Error())))
		_ = s.store.Clear()
		return ErrLoginFailed
	}
	if err := s.store.SetLoggedIn(username); err != nil {
		s.log.Warn("Failed to persist session", s.log.Args("error", err.Error()))
		return ErrLoginFailed
	}
	return nil
}

// AuthState subscribes fn to the authentication stream. fn receives the
// current state before AuthState returns.
func (s *Service) AuthState(fn func(bool)) *observe.Subscription {
	return s.store.Subscribe(fn)
}

// IsLoggedIn reads the durable marker.
func (s *Service) IsLoggedIn() bool {
	return s.store.IsLoggedIn()
}

// Authenticated returns the in-memory authentication state.
func (s *Service) Authenticated() bool {
	return s.store.Authenticated()
}

// Username returns the username of a legacy login, if any.
func (s *Service) Username() string {
	return s.store.Username()
}
