package auth

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"alphastocks/cli/internal/observe"
)

// SessionCookieName is the gateway's session cookie.
const SessionCookieName = "session_id"

// Jar is an http.CookieJar that persists the gateway session cookie in the
// store and forgets every cookie when the session ends.
type Jar struct {
	store  *Store
	origin *url.URL

	mu    sync.Mutex
	inner *cookiejar.Jar
	sub   *observe.Subscription
}

// NewJar returns a jar for the gateway at baseURL, restoring the persisted
// session cookie.
func NewJar(store *Store, baseURL string) (*Jar, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	j := &Jar{
		store:  store,
		origin: &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"},
		inner:  inner,
	}
	if v := store.sessionCookie(); v != "" && store.Authenticated() {
		inner.SetCookies(j.origin, []*http.Cookie{{Name: SessionCookieName, Value: v, Path: "/"}})
	}
	j.sub = store.Subscribe(func(ok bool) {
		if !ok {
			j.reset()
		}
	})
	return j, nil
}

// Close detaches the jar from the authentication stream.
func (j *Jar) Close() {
	j.sub.Unsubscribe()
}

func (j *Jar) reset() {
	inner, _ := cookiejar.New(nil)
	j.mu.Lock()
	j.inner = inner
	j.mu.Unlock()
}

func (j *Jar) jar() *cookiejar.Jar {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner
}

// SetCookies implements http.CookieJar.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.jar().SetCookies(u, cookies)
	for _, c := range cookies {
		if c.Name != SessionCookieName {
			continue
		}
		value := c.Value
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			value = ""
		}
		if err := j.store.setSessionCookie(value); err != nil {
			j.store.log.Warn("Failed to persist session cookie", j.store.log.Args("error", err.Error()))
		}
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar().Cookies(u)
}
