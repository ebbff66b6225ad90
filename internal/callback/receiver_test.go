package callback

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReceiver(t *testing.T) *Receiver {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	r := Serve(ln, nil)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func get(t *testing.T, r *Receiver, query string) (int, string) {
	t.Helper()
	resp, err := http.Get("http://" + r.Addr() + "/callback" + query)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestReceiverDeliversCode(t *testing.T) {
	r := newReceiver(t)

	status, body := get(t, r, "?code=abc123")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Signed in")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	code, err := r.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", code)
}

func TestReceiverProviderError(t *testing.T) {
	r := newReceiver(t)

	status, _ := get(t, r, "?error=access_denied&error_description=user+cancelled")
	assert.Equal(t, http.StatusBadRequest, status)

	_, err := r.Wait(context.Background())
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "access_denied", pe.Code)
	assert.Equal(t, "user cancelled", pe.Description)
}

func TestReceiverMissingCode(t *testing.T) {
	r := newReceiver(t)

	status, _ := get(t, r, "")
	assert.Equal(t, http.StatusBadRequest, status)

	_, err := r.Wait(context.Background())
	assert.ErrorIs(t, err, ErrMissingCode)
}

func TestReceiverOnlyFirstCallbackCounts(t *testing.T) {
	r := newReceiver(t)

	status, _ := get(t, r, "?code=first")
	require.Equal(t, http.StatusOK, status)
	status, _ = get(t, r, "?code=second")
	assert.Equal(t, http.StatusGone, status)

	code, err := r.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", code)
}

func TestReceiverWaitHonorsContext(t *testing.T) {
	r := newReceiver(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReceiverUnknownPath(t *testing.T) {
	r := newReceiver(t)

	resp, err := http.Get("http://" + r.Addr() + "/elsewhere")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListenRejectsBadOrigin(t *testing.T) {
	_, err := Listen("not a url", nil)
	assert.Error(t, err)
}
