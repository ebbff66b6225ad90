package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	base := stderrors.New("boom")
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain", err: base, want: ""},
		{name: "direct", err: Wrap(Network, "dial", base), want: Network},
		{name: "wrapped", err: fmt.Errorf("search: %w", New(Forbidden, "no")), want: Forbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	base := stderrors.New("boom")
	err := Wrap(Unauthorized, "session", base)
	if !stderrors.Is(err, base) {
		t.Error("wrapped error must unwrap to its cause")
	}
	if !Is(err, Unauthorized) {
		t.Error("Is(Unauthorized) = false")
	}
	if got, want := err.Error(), "unauthorized: session: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
