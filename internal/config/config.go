// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; session material goes to the OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"alphastocks/cli/internal/xdg"
)

// Environment overrides, applied after the file is read.
var (
	EnvAPIURL         = "ALPHASTOCKS_API_URL"
	EnvDexHost        = "ALPHASTOCKS_DEX_HOST"
	EnvDexClientID    = "ALPHASTOCKS_DEX_CLIENT_ID"
	EnvCallbackOrigin = "ALPHASTOCKS_CALLBACK_ORIGIN"
	EnvLogLevel       = "ALPHASTOCKS_LOG_LEVEL"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel string    `json:"log_level"`
	API      APIConfig `json:"api"`
	Dex      DexConfig `json:"dex"`
}

// APIConfig locates the gateway. Endpoint paths are relative to BaseURL.
type APIConfig struct {
	BaseURL   string    `json:"base_url"`
	Endpoints Endpoints `json:"endpoints"`
}

// DexConfig describes the identity provider and the local redirect target.
type DexConfig struct {
	Host     string `json:"host"`
	ClientID string `json:"client_id"`
	// CallbackOrigin is the origin registered with the provider; the CLI
	// serves <CallbackOrigin>/callback on its loopback address.
	CallbackOrigin string `json:"callback_origin"`
}

// Endpoints contains REST API endpoint paths.
type Endpoints struct {
	Login        string `json:"login"`         // e.g., "/login"
	Logout       string `json:"logout"`        // e.g., "/logout"
	CodeExchange string `json:"code_exchange"` // e.g., "/exchange-code"
	Stocks       string `json:"stocks"`        // e.g., "/stocks"
	Order        string `json:"order"`         // e.g., "/order"
}

// Default returns the settings of a local development deployment.
func Default() Config {
	return Config{
		LogLevel: "warn",
		API: APIConfig{
			BaseURL: "http://localhost:8000/api",
			Endpoints: Endpoints{
				Login:        "/login",
				Logout:       "/logout",
				CodeExchange: "/exchange-code",
				Stocks:       "/stocks",
				Order:        "/order",
			},
		},
		Dex: DexConfig{
			Host:           "http://127.0.0.1:32000",
			ClientID:       "alpha-stocks-client",
			CallbackOrigin: "http://127.0.0.1:4200",
		},
	}
}

// DefaultPath returns the path to the config file in the XDG config dir.
func DefaultPath() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration from p, or from DefaultPath when p is empty.
// A missing file yields defaults. Environment overrides are applied and the
// result is validated.
func Load(p string) (Config, error) {
	c := Default()
	if p == "" {
		var err error
		if p, err = DefaultPath(); err != nil {
			return c, err
		}
	}

	data, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := json.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnvironmentOverrides(&c)

	if err := Validate(c); err != nil {
		return c, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

// Save writes configuration to p (DefaultPath when empty) with 0600 permissions.
func Save(p string, c Config) error {
	if p == "" {
		var err error
		if p, err = DefaultPath(); err != nil {
			return err
		}
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

func applyEnvironmentOverrides(c *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvDexHost); v != "" {
		c.Dex.Host = v
	}
	if v := os.Getenv(EnvDexClientID); v != "" {
		c.Dex.ClientID = v
	}
	if v := os.Getenv(EnvCallbackOrigin); v != "" {
		c.Dex.CallbackOrigin = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks that URLs are absolute and required fields are present.
func Validate(c Config) error {
	for name, raw := range map[string]string{
		"api.base_url":        c.API.BaseURL,
		"dex.host":            c.Dex.Host,
		"dex.callback_origin": c.Dex.CallbackOrigin,
	} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
		}
	}
	if strings.TrimSpace(c.Dex.ClientID) == "" {
		return errors.New("dex.client_id is required")
	}
	e := c.API.Endpoints
	if e.Login == "" || e.Logout == "" || e.CodeExchange == "" || e.Stocks == "" || e.Order == "" {
		return errors.New("api.endpoints must define login, logout, code_exchange, stocks and order")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

// URL joins the API base URL and an endpoint path.
func (a APIConfig) URL(path string) string {
	return strings.TrimRight(a.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// RedirectURL is the callback URL registered with the identity provider.
func (d DexConfig) RedirectURL() string {
	return strings.TrimRight(d.CallbackOrigin, "/") + "/callback"
}

// AuthURL is the provider's authorize endpoint.
func (d DexConfig) AuthURL() string {
	return strings.TrimRight(d.Host, "/") + "/dex/auth"
}

// TokenURL is the provider's token endpoint. The CLI never calls it; the
// gateway performs the exchange.
func (d DexConfig) TokenURL() string {
	return strings.TrimRight(d.Host, "/") + "/dex/token"
}
