// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package app is the composition root. It builds one instance of every
// collaborator and hands them to commands; nothing else constructs them.
package app

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"alphastocks/cli/internal/auth"
	"alphastocks/cli/internal/backend"
	"alphastocks/cli/internal/config"
	"alphastocks/cli/internal/keychain"
	"alphastocks/cli/internal/logging"
	"alphastocks/cli/internal/modal"
	"alphastocks/cli/internal/nav"

	"github.com/99designs/keyring"
	"github.com/pterm/pterm"
)

// RequestTimeout bounds every gateway call.
const RequestTimeout = 10 * time.Second

// Options customizes New. The zero value loads the default config file and
// uses the OS keychain.
type Options struct {
	// ConfigPath overrides the config file location.
	ConfigPath string
	// Config, when non-nil, is used instead of loading a file.
	Config *config.Config
	// Keyring replaces the OS keychain, e.g. keyring.NewArrayKeyring in tests.
	Keyring keyring.Keyring
	// Transport is the round tripper beneath the interceptor.
	Transport http.RoundTripper
	// Browser opens the identity provider's page.
	Browser auth.Browser
	// LogWriter receives log output; defaults to stderr.
	LogWriter io.Writer
}

// App owns the running client.
type App struct {
	Config config.Config
	Log    *pterm.Logger

	Keychain *keychain.Manager
	Store    *auth.Store
	Auth     *auth.Service
	API      backend.API
	Nav      *nav.Navigator
	Modal    *modal.Notifier

	jar *auth.Jar
}

// New wires the application.
func New(opts Options) (*App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	w := opts.LogWriter
	if w == nil {
		w = os.Stderr
	}
	log := logging.New(w, cfg.LogLevel)

	var km *keychain.Manager
	if opts.Keyring != nil {
		km = keychain.NewManagerWithRing(opts.Keyring)
	} else if km, err = keychain.NewManager(); err != nil {
		return nil, fmt.Errorf("open keychain: %w", err)
	}

	store := auth.NewStore(km, log)
	jar, err := auth.NewJar(store, cfg.API.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	notifier := modal.New()
	navigator := nav.New()
	ic := backend.NewInterceptor(opts.Transport, navigator, notifier, log)
	api := backend.New(cfg.API, &http.Client{
		Transport: ic,
		Jar:       jar,
		Timeout:   RequestTimeout,
	})
	svc := auth.NewService(api, store, cfg.Dex, opts.Browser, log)
	ic.Bind(svc)
	navigator.Guard(svc)

	log.Debug("Application ready",
		log.Args("api", cfg.API.BaseURL, "dex", cfg.Dex.Host, "authenticated", store.Authenticated()))

	return &App{
		Config:   cfg,
		Log:      log,
		Keychain: km,
		Store:    store,
		Auth:     svc,
		API:      api,
		Nav:      navigator,
		Modal:    notifier,
		jar:      jar,
	}, nil
}

func loadConfig(opts Options) (config.Config, error) {
	if opts.Config != nil {
		return *opts.Config, config.Validate(*opts.Config)
	}
	return config.Load(opts.ConfigPath)
}

// Close releases subscriptions.
func (a *App) Close() {
	a.Nav.Close()
	a.jar.Close()
}
