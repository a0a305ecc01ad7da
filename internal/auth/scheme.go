// Package auth orchestrates the login/logout state machine over two states,
// Anonymous and Authenticated, and reconciles the two authentication schemes
// the service has used across its evolution: a client-held bearer token and
// a server-managed session cookie.
package auth

import (
	"net/url"
	"sync"

	"github.com/imagepost/imagepost-cli/internal/session"
)

// LoginResult is what the login endpoint produced: the status is known to be
// a success by the time a scheme sees it, and the token is present only
// under the bearer scheme.
type LoginResult struct {
	AccessToken string
}

// Scheme abstracts over how a session is established and held so the
// controller stays scheme-agnostic. A deployment picks exactly one scheme;
// the two are never active at once.
type Scheme interface {
	Name() string

	// LoginForm builds the form-url-encoded login body. The cookie scheme
	// adds its remember-me field here.
	LoginForm(username, password string) url.Values

	// EstablishSession records a successful login. Under the bearer scheme a
	// token may be absent; success is then carried by status alone.
	EstablishSession(res LoginResult)

	// HasValidSession reports whether the client believes a session is live.
	HasValidSession() bool

	// TeardownSession drops whatever session material the client holds.
	TeardownSession()
}

// BearerScheme keeps an opaque access token in the credential store; the
// request interceptor attaches it to every outbound call.
type BearerScheme struct {
	store *session.Store
}

// NewBearerScheme binds the scheme to the shared credential store.
func NewBearerScheme(store *session.Store) *BearerScheme {
	return &BearerScheme{store: store}
}

func (s *BearerScheme) Name() string { return "bearer" }

func (s *BearerScheme) LoginForm(username, password string) url.Values {
	return url.Values{
		"username": {username},
		"password": {password},
	}
}

func (s *BearerScheme) EstablishSession(res LoginResult) {
	if res.AccessToken != "" {
		s.store.Set(res.AccessToken)
	}
}

func (s *BearerScheme) HasValidSession() bool {
	_, ok := s.store.Get()
	return ok
}

func (s *BearerScheme) TeardownSession() {
	s.store.Clear()
}

// CookieScheme relies on a server-managed session cookie carried implicitly
// by the HTTP client's cookie jar. The client holds no token; it only tracks
// whether a session is believed active.
type CookieScheme struct {
	mu     sync.Mutex
	active bool
}

// NewCookieScheme returns a cookie-session scheme. The caller is responsible
// for giving the HTTP client a cookie jar.
func NewCookieScheme() *CookieScheme {
	return &CookieScheme{}
}

func (s *CookieScheme) Name() string { return "cookie" }

func (s *CookieScheme) LoginForm(username, password string) url.Values {
	return url.Values{
		"username":    {username},
		"password":    {password},
		"remember-me": {"true"},
	}
}

func (s *CookieScheme) EstablishSession(LoginResult) {
	s.mu.Lock()
	s.active = true
	s.mu.Unlock()
}

func (s *CookieScheme) HasValidSession() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *CookieScheme) TeardownSession() {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}
