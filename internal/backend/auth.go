package backend

import (
	"context"
	"net/http"
)

// ExchangeCode posts { code } to the code-exchange endpoint.
// On success the gateway sets the session cookie; the body is ignored.
func (h *HTTP) ExchangeCode(ctx context.Context, code string) error {
	body := map[string]string{"code": code}
	return h.do(ctx, http.MethodPost, h.endpoint(h.api.Endpoints.CodeExchange), body, nil)
}

// Logout posts {} to the logout endpoint.
func (h *HTTP) Logout(ctx context.Context) error {
	return h.do(ctx, http.MethodPost, h.endpoint(h.api.Endpoints.Logout), struct{}{}, nil)
}

// Login posts { username } to the login endpoint of gateways without SSO.
func (h *HTTP) Login(ctx context.Context, username string) error {
	body := map[string]string{"username": username}
	return h.do(ctx, http.MethodPost, h.endpoint(h.api.Endpoints.Login), body, nil)
}
