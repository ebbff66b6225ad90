package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"alphastocks/cli/internal/app"
	"alphastocks/cli/internal/auth"
	"alphastocks/cli/internal/config"
	"alphastocks/cli/internal/nav"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway serves the Alpha Stocks API for command tests. Every
// authenticated route answers with forceStatus when it is set.
type fakeGateway struct {
	forceStatus atomic.Int32
	orders      atomic.Int32
}

func (g *fakeGateway) authorized(w http.ResponseWriter, r *http.Request) bool {
	if s := int(g.forceStatus.Load()); s != 0 {
		w.WriteHeader(s)
		return false
	}
	if _, err := r.Cookie(auth.SessionCookieName); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}
	return true
}

func (g *fakeGateway) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/exchange-code", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Code string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Code != "abc123" {
			http.Error(w, "invalid code", http.StatusBadRequest)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: auth.SessionCookieName, Value: "sess", Path: "/"})
	})
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: auth.SessionCookieName, Value: "sess", Path: "/"})
	})
	mux.HandleFunc("POST /api/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: auth.SessionCookieName, Path: "/", MaxAge: -1})
	})
	mux.HandleFunc("GET /api/stocks/search", func(w http.ResponseWriter, r *http.Request) {
		if g.authorized(w, r) {
			_, _ = io.WriteString(w, `{"success":true,"results":[{"id":1,"symbol":"ALP","name":"Alpha Corp"}]}`)
		}
	})
	mux.HandleFunc("GET /api/stocks/holdings", func(w http.ResponseWriter, r *http.Request) {
		if g.authorized(w, r) {
			_, _ = io.WriteString(w, `{"totalHoldings":1,"totalValue":50,"holdings":[{"stockID":1,"stockSymbol":"ALP","stockName":"Alpha Corp","quantity":5,"currentPrice":10,"totalValue":50}]}`)
		}
	})
	mux.HandleFunc("GET /api/stocks/{id}", func(w http.ResponseWriter, r *http.Request) {
		if g.authorized(w, r) {
			fmt.Fprintf(w, `{"id":%s,"symbol":"ALP","name":"Alpha Corp","currentPrice":10}`, r.PathValue("id"))
		}
	})
	mux.HandleFunc("POST /api/order", func(w http.ResponseWriter, r *http.Request) {
		if g.authorized(w, r) {
			g.orders.Add(1)
			_, _ = io.WriteString(w, `{"transactionID":"tx-9","operation":"Buy","stockName":"Alpha Corp","stockSymbol":"ALP","stockID":1,"stockPrice":10,"quantity":2,"totalValue":20}`)
		}
	})
	mux.HandleFunc("GET /api/order/{id}", func(w http.ResponseWriter, r *http.Request) {
		if g.authorized(w, r) {
			fmt.Fprintf(w, `{"transactionID":%q,"operation":"Sell","quantity":1}`, r.PathValue("id"))
		}
	})
	return mux
}

// freeOrigin returns a loopback origin on a currently unused port.
func freeOrigin(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return "http://" + ln.Addr().String()
}

// redirectingBrowser plays the identity provider: it follows the authorize
// URL straight back to the redirect URI with code.
func redirectingBrowser(code string) auth.Browser {
	return auth.BrowserFunc(func(raw string) error {
		u, err := url.Parse(raw)
		if err != nil {
			return err
		}
		go func() {
			resp, err := http.Get(u.Query().Get("redirect_uri") + "?code=" + code)
			if err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	})
}

func newTestApp(t *testing.T, browser auth.Browser) (*app.App, *fakeGateway) {
	t.Helper()
	g := &fakeGateway{}
	srv := httptest.NewServer(g.handler())
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.API.BaseURL = srv.URL + "/api"
	cfg.Dex.CallbackOrigin = freeOrigin(t)
	a, err := app.New(app.Options{
		Config:    &cfg,
		Keyring:   keyring.NewArrayKeyring(nil),
		Browser:   browser,
		LogWriter: io.Discard,
	})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, g
}

func TestLoginThroughIdentityProvider(t *testing.T) {
	a, _ := newTestApp(t, redirectingBrowser("abc123"))
	var out bytes.Buffer

	require.NoError(t, runLogin(context.Background(), a, &out, ""))

	assert.True(t, a.Auth.IsLoggedIn())
	assert.Equal(t, nav.Landing, a.Nav.Current())
	assert.Contains(t, out.String(), "/dex/auth?")
	assert.Contains(t, out.String(), "Login successful")
}

func TestLoginWithRejectedCode(t *testing.T) {
	a, _ := newTestApp(t, redirectingBrowser("stale"))
	var out bytes.Buffer

	err := runLogin(context.Background(), a, &out, "")
	require.ErrorIs(t, err, auth.ErrExchangeFailed)
	assert.False(t, a.Auth.IsLoggedIn())
	assert.Equal(t, nav.Landing, a.Nav.Current())
}

func TestLoginTimesOutWithoutRedirect(t *testing.T) {
	a, _ := newTestApp(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := runLogin(ctx, a, io.Discard, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.False(t, a.Auth.IsLoggedIn())
}

func TestLoginWithUsername(t *testing.T) {
	a, _ := newTestApp(t, nil)
	var out bytes.Buffer

	require.NoError(t, runLogin(context.Background(), a, &out, "alice"))
	assert.Contains(t, out.String(), "alice")

	out.Reset()
	require.NoError(t, runWhoAmI(context.Background(), a, &out, nil))
	assert.Contains(t, out.String(), "Current user: alice")

	out.Reset()
	require.NoError(t, runLogin(context.Background(), a, &out, "bob"))
	assert.Contains(t, out.String(), "Already logged in")
}

func TestProtectedCommandsNeedSession(t *testing.T) {
	a, _ := newTestApp(t, nil)

	assert.ErrorIs(t, runPortfolio(context.Background(), a, io.Discard, nil), errNotLoggedIn)
	assert.ErrorIs(t, runSearch(context.Background(), a, io.Discard, []string{"alp"}), errNotLoggedIn)
	assert.ErrorIs(t, placeOrder("Buy", approve)(context.Background(), a, io.Discard, []string{"1", "2"}), errNotLoggedIn)
}

func TestTradingCommands(t *testing.T) {
	a, g := newTestApp(t, nil)
	ctx := context.Background()
	require.NoError(t, a.Auth.ExchangeCode(ctx, "abc123"))

	var out bytes.Buffer
	require.NoError(t, runSearch(ctx, a, &out, []string{"alpha", "corp"}))
	assert.Contains(t, out.String(), "ALP")

	out.Reset()
	require.NoError(t, runStock(ctx, a, &out, []string{"1"}))
	assert.Contains(t, out.String(), "$10.00")

	out.Reset()
	require.NoError(t, runPortfolio(ctx, a, &out, nil))
	assert.Contains(t, out.String(), "total value $50.00")

	out.Reset()
	require.NoError(t, placeOrder("Buy", approve)(ctx, a, &out, []string{"1", "2"}))
	assert.Contains(t, out.String(), "tx-9")
	assert.Equal(t, nav.Transaction, a.Nav.Current())
	assert.Equal(t, int32(1), g.orders.Load())

	out.Reset()
	require.NoError(t, runShowTransaction(ctx, a, &out, []string{"tx-9"}))
	assert.Contains(t, out.String(), "Sell")
}

func TestOrderRejectsBadQuantity(t *testing.T) {
	a, g := newTestApp(t, nil)
	require.NoError(t, a.Auth.ExchangeCode(context.Background(), "abc123"))

	err := placeOrder("Sell", approve)(context.Background(), a, io.Discard, []string{"1", "zero"})
	assert.Error(t, err)
	assert.Zero(t, g.orders.Load())
}

func TestOrderDeclined(t *testing.T) {
	a, g := newTestApp(t, nil)
	require.NoError(t, a.Auth.ExchangeCode(context.Background(), "abc123"))

	var out bytes.Buffer
	decline := func(string) bool { return false }
	require.NoError(t, placeOrder("Buy", decline)(context.Background(), a, &out, []string{"1", "1"}))
	assert.Contains(t, out.String(), "cancelled")
	assert.Zero(t, g.orders.Load())
}

func TestExpiredSessionEndsInLanding(t *testing.T) {
	a, g := newTestApp(t, nil)
	ctx := context.Background()
	require.NoError(t, a.Auth.ExchangeCode(ctx, "abc123"))

	g.forceStatus.Store(http.StatusUnauthorized)
	err := runPortfolio(ctx, a, io.Discard, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session has ended")
	assert.False(t, a.Auth.IsLoggedIn())
	assert.Equal(t, nav.Landing, a.Nav.Current())
}

func TestLogoutCommand(t *testing.T) {
	a, _ := newTestApp(t, nil)
	require.NoError(t, a.Auth.ExchangeCode(context.Background(), "abc123"))

	var out bytes.Buffer
	require.NoError(t, runLogout(context.Background(), a, &out, nil))
	assert.Contains(t, out.String(), "Logged out")
	assert.False(t, a.Auth.IsLoggedIn())
}

func TestShell(t *testing.T) {
	a, g := newTestApp(t, nil)
	ctx := context.Background()

	in := strings.NewReader(strings.Join([]string{
		"portfolio",
		"login alice",
		"search alp",
		"stock",
		"bogus",
		"",
		"portfolio",
		"exit",
		"whoami",
	}, "\n"))
	var out bytes.Buffer

	g.forceStatus.Store(0)
	require.NoError(t, runShell(ctx, a, in, &out))

	s := out.String()
	assert.Contains(t, s, "🔒 alphastocks:/auth> ")
	assert.Contains(t, s, "not logged in")
	assert.Contains(t, s, "● alphastocks:/auth> ")
	assert.Contains(t, s, "Alpha Corp")
	assert.Contains(t, s, "usage: stock <stockId>")
	assert.Contains(t, s, `unknown command "bogus"`)
	assert.Contains(t, s, "● alphastocks:/portfolio> ")
	assert.NotContains(t, s, "Current user", "nothing runs after exit")
}

func TestShellShowsForbiddenNotice(t *testing.T) {
	a, g := newTestApp(t, nil)
	require.NoError(t, a.Auth.ExchangeCode(context.Background(), "abc123"))
	g.forceStatus.Store(http.StatusForbidden)

	var out bytes.Buffer
	require.NoError(t, runShell(context.Background(), a, strings.NewReader("portfolio\n"), &out))

	assert.Contains(t, out.String(), "Access Forbidden")
	assert.Empty(t, a.Modal.Current(), "the notice is dismissed after it is shown")
	assert.True(t, a.Auth.IsLoggedIn())
}

func TestShellAnnouncesForcedLogout(t *testing.T) {
	a, g := newTestApp(t, nil)
	require.NoError(t, a.Auth.ExchangeCode(context.Background(), "abc123"))
	g.forceStatus.Store(http.StatusUnauthorized)

	var out bytes.Buffer
	require.NoError(t, runShell(context.Background(), a, strings.NewReader("portfolio\n"), &out))

	assert.Contains(t, out.String(), "Signed out")
	assert.Contains(t, out.String(), "🔒 alphastocks:/auth> ")
}
