// Package xdg resolves XDG Base Directory paths for alphastocks.
//
// It falls back to the traditional ~/.config and ~/.local/state locations
// when the XDG environment variables are unset, and creates directories with
// private permissions since they hold session material.
package xdg

import (
	"os"
	"path/filepath"
)

const appDir = "alphastocks"

// ConfigDir returns the XDG config directory for alphastocks, creating it (0700) if missing.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for alphastocks, creating it (0700) if missing.
func StateDir() (string, error) {
	return ensure("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func ensure(env, homeRel string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRel)
	}
	dir := filepath.Join(base, appDir)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
