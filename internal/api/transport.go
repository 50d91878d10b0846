package api

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Session is the part of the session store the transport needs.
type Session interface {
	Token() string
	Logout()
}

// AuthTransport decorates outgoing requests with the bearer token and
// reacts to 401 responses by clearing the session. The redirect callback
// fires at most once until Rearm is called, however many requests fail
// concurrently.
type AuthTransport struct {
	base      http.RoundTripper
	session   Session
	onExpired func()
	log       zerolog.Logger
	fired     atomic.Bool
}

var _ http.RoundTripper = (*AuthTransport)(nil)

// NewAuthTransport wraps base. A nil base uses http.DefaultTransport.
func NewAuthTransport(base http.RoundTripper, session Session, onExpired func(), log zerolog.Logger) *AuthTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &AuthTransport{
		base:      base,
		session:   session,
		onExpired: onExpired,
		log:       log,
	}
}

// Middleware adapts the transport for Client.Use; the wrapped transport
// becomes its base.
func (t *AuthTransport) Middleware() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		t.base = next
		return t
	}
}

// RoundTrip implements http.RoundTripper.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if out.Header.Get(RequestIDHeader) == "" {
		out.Header.Set(RequestIDHeader, uuid.NewString())
	}

	public := isAuthPath(out.URL.Path)
	var token string
	if !public {
		if token = t.session.Token(); token != "" {
			out.Header.Set("Authorization", "Bearer "+token)
		} else {
			t.log.Debug().Str("path", out.URL.Path).Msg("no session token; sending unauthenticated")
		}
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(out)
	if err != nil {
		t.log.Debug().Err(err).Str("method", out.Method).Str("path", out.URL.Path).Msg("api request failed")
		return nil, err
	}

	t.log.Debug().
		Str("method", out.Method).
		Str("path", out.URL.Path).
		Str("request_id", out.Header.Get(RequestIDHeader)).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api request")

	if resp.StatusCode == http.StatusUnauthorized && !public {
		// A token replaced while the request was in flight is not this
		// session's to expire.
		if token != t.session.Token() {
			t.log.Debug().Str("path", out.URL.Path).Msg("ignoring 401 for a replaced token")
			return resp, nil
		}
		t.log.Warn().Str("path", out.URL.Path).Msg("session rejected by server")
		t.Expire()
	}
	return resp, nil
}

// Expire clears the session and fires the redirect callback once.
func (t *AuthTransport) Expire() {
	t.session.Logout()
	if t.fired.CompareAndSwap(false, true) && t.onExpired != nil {
		t.onExpired()
	}
}

// Rearm allows the next expiry to fire the callback again. Call it after a
// successful login.
func (t *AuthTransport) Rearm() {
	t.fired.Store(false)
}

func isAuthPath(path string) bool {
	return path == loginPath || path == registerPath
}
