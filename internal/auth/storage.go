// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"errors"
	"sync"

	"alphastocks/cli/internal/keychain"
	"alphastocks/cli/internal/logging"
	"alphastocks/cli/internal/observe"

	"github.com/pterm/pterm"
)

// markerTrue is the stored value of the logged-in marker.
const markerTrue = "true"

// Store is the session store: the authenticated flag, mirrored in the OS
// keychain so it survives restarts, plus the session cookie and the legacy
// username. Every mutation writes the keychain before the flag changes and
// is emitted on the authentication stream.
type Store struct {
	km  *keychain.Manager
	log *pterm.Logger

	mu    sync.Mutex
	state *observe.Value[bool]
}

// NewStore reads the durable marker once and returns a store initialized from it.
// An unreadable keychain is treated as logged out.
func NewStore(km *keychain.Manager, log *pterm.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	s := &Store{km: km, log: log}
	s.state = observe.New(s.IsLoggedIn())
	return s
}

// IsLoggedIn reads the durable marker. Reactive consumers use Subscribe instead.
func (s *Store) IsLoggedIn() bool {
	v, err := s.km.Get(keychain.KeyLoggedIn)
	if err != nil {
		if !errors.Is(err, keychain.ErrNotFound) {
			s.log.Warn("Failed to read session marker", s.log.Args("error", err.Error()))
		}
		return false
	}
	return v == markerTrue
}

// Authenticated returns the in-memory flag.
func (s *Store) Authenticated() bool {
	return s.state.Current()
}

// Subscribe registers fn on the authentication stream. fn receives the
// current state before Subscribe returns and then one value per transition.
func (s *Store) Subscribe(fn func(bool)) *observe.Subscription {
	return s.state.Subscribe(fn)
}

// SetLoggedIn persists the marker, and username when non-empty, then emits true.
// If the marker cannot be written the session is cleared instead.
func (s *Store) SetLoggedIn(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.km.Set(keychain.KeyLoggedIn, markerTrue)
	if err == nil && username != "" {
		err = s.km.Set(keychain.KeyUsername, username)
	}
	if err != nil {
		s.clearLocked()
		return err
	}
	s.state.PublishIfChanged(true)
	return nil
}

// Clear removes every session artifact and emits false. The flag is cleared
// even when the keychain reports an error, which is returned.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked()
}

func (s *Store) clearLocked() error {
	err := s.km.ClearSession()
	if err != nil {
		s.log.Warn("Failed to clear session from keychain", s.log.Args("error", err.Error()))
	}
	s.state.PublishIfChanged(false)
	return err
}

// Username returns the stored username of a legacy login, or "".
func (s *Store) Username() string {
	v, err := s.km.Get(keychain.KeyUsername)
	if err != nil {
		return ""
	}
	return v
}

// sessionCookie returns the persisted session cookie value, or "".
func (s *Store) sessionCookie() string {
	v, err := s.km.Get(keychain.KeySessionCookie)
	if err != nil {
		return ""
	}
	return v
}

func (s *Store) setSessionCookie(v string) error {
	if v == "" {
		return s.km.Delete(keychain.KeySessionCookie)
	}
	return s.km.Set(keychain.KeySessionCookie, v)
}
