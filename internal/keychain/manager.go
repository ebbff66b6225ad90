// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides thread-safe access to the OS credential store.
//
// It is the durable storage behind the session store: the logged-in marker,
// the gateway session cookie and the legacy username all live here so they
// survive restarts of the CLI. macOS uses the native security command when
// available, other platforms go through github.com/99designs/keyring.
package keychain

import (
	"errors"
	"os"
	"runtime"
	"sync"

	"alphastocks/cli/internal/xdg"

	"github.com/99designs/keyring"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "alphastocks"

// Keys used for storing session artifacts in the OS keychain.
const (
	KeyLoggedIn      = "is_logged_in"
	KeySessionCookie = "session_cookie"
	KeyUsername      = "username"
)

// EnvFilePassword unlocks the encrypted file backend used when no native
// credential store is available.
const EnvFilePassword = "ALPHASTOCKS_KEYRING_PASSWORD"

// ErrNotFound is returned by Get when the key has no stored value.
var ErrNotFound = errors.New("keychain: key not found")

// backend defines the primitive operations every store implements.
type backend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Manager provides serialized operations on one credential store.
type Manager struct {
	mu      sync.RWMutex
	backend backend
}

// NewManager opens the OS credential store.
func NewManager() (*Manager, error) {
	// Prefer the native security command on macOS
	if runtime.GOOS == "darwin" {
		if sb, err := newSecurityBackend(); err == nil {
			return &Manager{backend: sb}, nil
		}
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return NewManagerWithRing(ring), nil
}

// NewManagerWithRing wraps an already opened keyring, e.g. keyring.NewArrayKeyring in tests.
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{backend: ringBackend{ring: ring}}
}

// openRing opens the OS keyring, falling back to an encrypted file in the
// XDG state directory on systems without a secret service.
func openRing() (keyring.Keyring, error) {
	cfg := keyring.Config{
		ServiceName:              ServiceName,
		KeychainTrustApplication: true,
		PassPrefix:               ServiceName,
		WinCredPrefix:            ServiceName,
		LibSecretCollectionName:  ServiceName,
		KWalletAppID:             ServiceName,
		KWalletFolder:            ServiceName,
	}

	switch runtime.GOOS {
	case "darwin":
		cfg.AllowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		cfg.AllowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	default:
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		}
		dir, err := xdg.StateDir()
		if err != nil {
			return nil, err
		}
		cfg.FileDir = dir
		if pw := os.Getenv(EnvFilePassword); pw != "" {
			cfg.FilePasswordFunc = keyring.FixedStringPrompt(pw)
		} else {
			cfg.FilePasswordFunc = keyring.TerminalPrompt
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. On macOS 26.0+, install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}
	return ring, nil
}

// Get returns the value stored under key or ErrNotFound.
func (m *Manager) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.backend.Get(key)
}

// Set stores value under key.
func (m *Manager) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend.Set(key, value)
}

// Delete removes key. Deleting a missing key is not an error.
func (m *Manager) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend.Delete(key)
}

// ClearSession removes every session artifact. All keys are attempted; the
// first failure is returned.
func (m *Manager) ClearSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var first error
	for _, k := range []string{KeyLoggedIn, KeySessionCookie, KeyUsername} {
		if err := m.backend.Delete(k); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ringBackend adapts keyring.Keyring to backend.
type ringBackend struct {
	ring keyring.Keyring
}

func (r ringBackend) Set(key, value string) error {
	return r.ring.Set(keyring.Item{Key: key, Data: []byte(value)})
}

func (r ringBackend) Get(key string) (string, error) {
	it, err := r.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(it.Data), nil
}

func (r ringBackend) Delete(key string) error {
	err := r.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
