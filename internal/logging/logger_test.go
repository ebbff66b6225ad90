package logging

import (
	"bytes"
	"testing"

	"github.com/pterm/pterm"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]pterm.LogLevel{
		"debug":   pterm.LogLevelDebug,
		"INFO":    pterm.LogLevelInfo,
		" warn ":  pterm.LogLevelWarn,
		"error":   pterm.LogLevelError,
		"":        pterm.LogLevelWarn,
		"unknown": pterm.LogLevelWarn,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewVerboseOverridesLevel(t *testing.T) {
	t.Setenv(EnvVerbose, "1")
	var buf bytes.Buffer
	l := New(&buf, "error")
	if l.Level != pterm.LogLevelDebug {
		t.Errorf("Level = %v, want debug", l.Level)
	}
}
