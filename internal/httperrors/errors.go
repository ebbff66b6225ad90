// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns gateway and network failures into messages a
// trader can act on.
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"alphastocks/cli/internal/backend"
	apperrors "alphastocks/cli/internal/errors"

	"github.com/pterm/pterm"
)

// Problem is a classified failure ready for display.
type Problem struct {
	Icon   string
	Title  string
	Reason string
	Hints  []string
	Detail string
}

// Classify inspects err and describes it. action is a gerund phrase such as
// "placing the order"; host names the gateway in hints.
func Classify(err error, action, host string) Problem {
	detail := err.Error()
	if len(detail) > 100 {
		detail = detail[:100] + "..."
	}

	switch {
	case apperrors.Is(err, apperrors.Unauthorized):
		return Problem{
			Icon:   "🔑",
			Title:  fmt.Sprintf("Session expired while %s", action),
			Reason: "You have been signed out.",
			Hints:  []string{"Run 'alphastocks login' to sign in again"},
		}
	case apperrors.Is(err, apperrors.Forbidden):
		return Problem{
			Icon:   "⛔",
			Title:  "Access Forbidden",
			Reason: fmt.Sprintf("Your account is not allowed to do this while %s.", action),
		}
	case isTimeoutError(err):
		return Problem{
			Icon:   "⏱️ ",
			Title:  fmt.Sprintf("Connection timeout while %s", action),
			Reason: "The gateway took too long to respond. This could mean:",
			Hints:  []string{"Slow network connection", "Gateway is under heavy load", "A firewall is dropping the connection"},
		}
	case isDNSError(err):
		return Problem{
			Icon:   "🌐",
			Title:  fmt.Sprintf("Cannot resolve gateway address while %s", action),
			Reason: fmt.Sprintf("Unable to look up %s. Please check:", host),
			Hints:  []string{"Your network connection is working", "ALPHASTOCKS_API_URL points at the right host"},
		}
	case isConnectionRefusedError(err):
		return Problem{
			Icon:   "🚫",
			Title:  fmt.Sprintf("Connection refused while %s", action),
			Reason: fmt.Sprintf("Nothing is accepting connections at %s. This could mean:", host),
			Hints:  []string{"The gateway is not running", "Wrong address or port in the config"},
		}
	case isSSLError(err):
		return Problem{
			Icon:   "🔒",
			Title:  fmt.Sprintf("Secure connection failed while %s", action),
			Reason: "Cannot establish a TLS connection to the gateway.",
			Hints:  []string{"Check your system date and time", "Verify network proxy settings"},
		}
	case isServerError(err):
		return Problem{
			Icon:   "⚠️ ",
			Title:  fmt.Sprintf("Server error while %s", action),
			Reason: "The Alpha Stocks gateway encountered an internal error.",
			Hints:  []string{"Please try again in a few minutes"},
			Detail: detail,
		}
	case apperrors.Is(err, apperrors.Business):
		return Problem{
			Icon:   "❌",
			Title:  fmt.Sprintf("Request rejected while %s", action),
			Reason: rejection(err),
			Detail: detail,
		}
	}
	return Problem{
		Icon:   "❌",
		Title:  fmt.Sprintf("Cannot reach the Alpha Stocks gateway while %s", action),
		Reason: "Please check:",
		Hints:  []string{"Your network connection", fmt.Sprintf("Whether %s is reachable", host)},
		Detail: detail,
	}
}

// Print writes p to the terminal.
func Print(p Problem) {
	pterm.Printf("%s %s\n", p.Icon, p.Title)
	pterm.Println()
	if p.Reason != "" {
		pterm.Println(p.Reason)
	}
	for _, h := range p.Hints {
		pterm.Println("  • " + h)
	}
	pterm.Println()
	if p.Detail != "" {
		pterm.Debug.Printf("Technical details: %s\n", p.Detail)
	}
}

// Report classifies and prints err, returning it wrapped for the caller.
func Report(err error, action, baseURL string) error {
	if err == nil {
		return nil
	}
	Print(Classify(err, action, ExtractHostFromURL(baseURL)))
	return fmt.Errorf("%s: %w", action, err)
}

func rejection(err error) string {
	var se *backend.StatusError
	if errors.As(err, &se) && se.Body != "" {
		return se.Body
	}
	return "The gateway could not process the request."
}

func isTimeoutError(err error) bool {
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.ECONNREFUSED)
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isSSLError(err error) bool {
	if !apperrors.Is(err, apperrors.Network) {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

func isServerError(err error) bool {
	return backend.StatusCode(err) >= 500
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
