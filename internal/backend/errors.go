package backend

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "alphastocks/cli/internal/errors"
)

// StatusError is returned for every non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 from the gateway.
func IsUnauthorized(err error) bool { return StatusCode(err) == http.StatusUnauthorized }

// IsForbidden reports whether err is a 403 from the gateway.
func IsForbidden(err error) bool { return StatusCode(err) == http.StatusForbidden }

// kindFor maps an HTTP status to an error kind.
func kindFor(status int) apperrors.Kind {
	switch status {
	case http.StatusUnauthorized:
		return apperrors.Unauthorized
	case http.StatusForbidden:
		return apperrors.Forbidden
	}
	return apperrors.Business
}

// statusError wraps a StatusError in the matching error kind.
func statusError(se *StatusError) error {
	return apperrors.Wrap(kindFor(se.StatusCode), "request rejected", se)
}
