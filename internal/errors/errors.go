// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure that reaches a command is one of four kinds: the transport
// failed, the session is not valid, the session lacks permission, or the
// backend rejected the request. Commands pick their message from the kind.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Network indicates the request never produced an HTTP response.
	Network Kind = "network"
	// Unauthorized indicates a missing or invalid session (HTTP 401).
	Unauthorized Kind = "unauthorized"
	// Forbidden indicates a valid session without sufficient privilege (HTTP 403).
	Forbidden Kind = "forbidden"
	// Business indicates the backend rejected the request.
	Business Kind = "business"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the first *E in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
