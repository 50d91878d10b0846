package api

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

type fakeSession struct {
	mu      sync.Mutex
	token   string
	logouts int
}

func (s *fakeSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *fakeSession) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.logouts++
}

func (s *fakeSession) loggedOut() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logouts
}

func TestAuthTransport_AttachesBearerExceptOnAuthPaths(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		headers = map[string]string{}
		ids     = map[string]string{}
	)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		headers[r.URL.Path] = r.Header.Get("Authorization")
		ids[r.URL.Path] = r.Header.Get(RequestIDHeader)
		mu.Unlock()
		if r.URL.Path == "/api/courses" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"t","userId":1,"role":"student"}`))
	}))
	sess := &fakeSession{token: "abc"}
	transport := NewAuthTransport(nil, sess, nil, zerolog.Nop())
	c.Use(transport.Middleware())

	ctx := context.Background()
	if _, err := c.ListCourses(ctx); err != nil {
		t.Fatalf("ListCourses returned error: %v", err)
	}
	if _, err := c.Login(ctx, Credentials{Email: "a@b.c", Password: "x"}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if _, err := c.Register(ctx, Registration{Email: "a@b.c"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if got := headers["/api/courses"]; got != "Bearer abc" {
		t.Fatalf("Authorization on /api/courses = %q, want Bearer abc", got)
	}
	if got := headers[loginPath]; got != "" {
		t.Fatalf("Authorization on login = %q, want none", got)
	}
	if got := headers[registerPath]; got != "" {
		t.Fatalf("Authorization on register = %q, want none", got)
	}
	if ids["/api/courses"] == "" || ids[loginPath] == "" {
		t.Fatalf("request ids = %v, want every request stamped", ids)
	}
}

func TestAuthTransport_NoTokenSendsNoHeader(t *testing.T) {
	t.Parallel()

	var got atomic.Value
	got.Store("unset")
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	c.Use(NewAuthTransport(nil, &fakeSession{}, nil, zerolog.Nop()).Middleware())

	if _, err := c.ListCourses(context.Background()); err != nil {
		t.Fatalf("ListCourses returned error: %v", err)
	}
	if got.Load().(string) != "" {
		t.Fatalf("Authorization = %q, want none", got.Load())
	}
}

func TestAuthTransport_ConcurrentUnauthorizedRedirectsOnce(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	sess := &fakeSession{token: "stale"}
	var redirects atomic.Int32
	transport := NewAuthTransport(nil, sess, func() { redirects.Add(1) }, zerolog.Nop())
	c.Use(transport.Middleware())

	const calls = 8
	var wg sync.WaitGroup
	errs := make(chan error, calls)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.ListCourses(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if !IsUnauthorized(err) {
			t.Fatalf("error = %v, want the 401 surfaced to the caller", err)
		}
	}
	if n := redirects.Load(); n != 1 {
		t.Fatalf("redirects = %d, want 1", n)
	}
	if sess.Token() != "" || sess.loggedOut() == 0 {
		t.Fatalf("session not cleared after 401")
	}

	transport.Rearm()
	if _, err := c.ListCourses(context.Background()); !IsUnauthorized(err) {
		t.Fatalf("error = %v, want unauthorized", err)
	}
	if n := redirects.Load(); n != 2 {
		t.Fatalf("redirects after Rearm = %d, want 2", n)
	}
}

func TestAuthTransport_LoginFailureDoesNotLogout(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	sess := &fakeSession{token: "keep"}
	var redirects atomic.Int32
	c.Use(NewAuthTransport(nil, sess, func() { redirects.Add(1) }, zerolog.Nop()).Middleware())

	if _, err := c.Login(context.Background(), Credentials{}); !IsUnauthorized(err) {
		t.Fatalf("Login error = %v, want unauthorized", err)
	}
	if redirects.Load() != 0 || sess.loggedOut() != 0 {
		t.Fatalf("failed login triggered expiry handling")
	}
}

func TestAuthTransport_LateUnauthorizedKeepsNewSession(t *testing.T) {
	t.Parallel()

	sess := &fakeSession{token: "old"}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The user signs in again while this request is in flight.
		sess.mu.Lock()
		sess.token = "fresh"
		sess.mu.Unlock()
		w.WriteHeader(http.StatusUnauthorized)
	}))
	var redirects atomic.Int32
	c.Use(NewAuthTransport(nil, sess, func() { redirects.Add(1) }, zerolog.Nop()).Middleware())

	if _, err := c.ListCourses(context.Background()); !IsUnauthorized(err) {
		t.Fatalf("error = %v, want unauthorized", err)
	}
	if redirects.Load() != 0 || sess.loggedOut() != 0 {
		t.Fatalf("late 401 expired the new session")
	}
	if sess.Token() != "fresh" {
		t.Fatalf("token = %q, want fresh", sess.Token())
	}
}
