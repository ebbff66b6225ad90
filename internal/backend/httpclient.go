package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"alphastocks/cli/internal/config"
	apperrors "alphastocks/cli/internal/errors"

	"github.com/google/uuid"
)

// UserAgent is sent with every request.
var UserAgent = "alphastocks-cli/1.0"

// maxErrorBody caps how much of an error response is kept in a StatusError.
const maxErrorBody = 512

// HTTP implements API over the gateway's REST endpoints.
type HTTP struct {
	// api holds the base URL and endpoint paths
	api config.APIConfig
	// client carries the interceptor transport and the session cookie jar
	client *http.Client
}

// newHTTP creates a new HTTP client for the given API configuration.
func newHTTP(api config.APIConfig, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{api: api, client: client}
}

// endpoint joins an endpoint path with optional extra path segments.
func (h *HTTP) endpoint(path string, segments ...string) string {
	u := h.api.URL(path)
	for _, s := range segments {
		u += "/" + url.PathEscape(s)
	}
	return u
}

// setStandardHeaders sets headers common to every request.
func (h *HTTP) setStandardHeaders(req *http.Request) {
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
}

// do sends a JSON request and decodes a JSON response into out when out is non-nil.
// Transport failures are wrapped as Network errors; non-2xx responses as *StatusError.
func (h *HTTP) do(ctx context.Context, method, rawURL string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
	if err != nil {
		return err
	}
	h.setStandardHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return apperrors.Wrap(apperrors.Network, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(&StatusError{
			Method:     method,
			Path:       req.URL.Path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
		})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.Business, fmt.Sprintf("decode %s response", req.URL.Path), err)
	}
	return nil
}
