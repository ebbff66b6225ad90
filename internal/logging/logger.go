// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// EnvVerbose forces debug logging when set to "1".
const EnvVerbose = "ALPHASTOCKS_VERBOSE"

// Verbose reports whether verbose mode was requested through the environment.
func Verbose() bool {
	return os.Getenv(EnvVerbose) == "1"
}

// ParseLevel maps a config level name to a pterm log level. Unknown names map to warn.
func ParseLevel(s string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return pterm.LogLevelDebug
	case "info":
		return pterm.LogLevelInfo
	case "error":
		return pterm.LogLevelError
	default:
		return pterm.LogLevelWarn
	}
}

// New returns a logger writing to w at the given level. Verbose mode
// overrides level with debug.
func New(w io.Writer, level string) *pterm.Logger {
	lvl := ParseLevel(level)
	if Verbose() {
		lvl = pterm.LogLevelDebug
	}
	return pterm.DefaultLogger.WithWriter(w).WithLevel(lvl)
}

// Discard returns a logger that drops everything, for tests.
func Discard() *pterm.Logger {
	return pterm.DefaultLogger.WithWriter(io.Discard).WithLevel(pterm.LogLevelDisabled)
}
