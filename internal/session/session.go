package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/five82/coursedeck/internal/api"
	"github.com/five82/coursedeck/internal/storage"
)

// Storage keys. Each is written and removed independently, so a reader can
// observe a partial triple; that reads as no session.
const (
	TokenKey  = "auth_token"
	UserIDKey = "user_id"
	RoleKey   = "user_role"
)

// Role is the account role granted by the server.
type Role string

const (
	RoleStudent Role = api.RoleStudent
	RoleTeacher Role = api.RoleTeacher
)

// Valid reports whether r is a role the client understands.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// Session is the authenticated identity. It is all or nothing.
type Session struct {
	Token  string
	UserID int64
	Role   Role
}

// Valid reports whether every field is present and well formed.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.Token) != "" && s.UserID > 0 && s.Role.Valid()
}

// State is what subscribers observe.
type State struct {
	Authenticated bool
	UserID        int64
	Role          Role
}

func (s Session) state() State {
	if !s.Valid() {
		return State{}
	}
	return State{Authenticated: true, UserID: s.UserID, Role: s.Role}
}

// AuthError reports a failed login or registration. The session is left
// untouched when it is returned.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Store owns the session. Reads always go to durable storage so that a
// change made by another process is seen on the next call.
type Store struct {
	backend storage.Store
	auth    api.AuthService
	log     zerolog.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]func(State)
}

// New builds a Store over backend, authenticating through auth.
func New(backend storage.Store, auth api.AuthService, log zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		auth:    auth,
		log:     log,
		subs:    make(map[int]func(State)),
	}
}

// Login exchanges credentials for a session.
func (s *Store) Login(ctx context.Context, creds api.Credentials) (Session, error) {
	resp, err := s.auth.Login(ctx, creds)
	if err != nil {
		return Session{}, &AuthError{Op: "login", Err: err}
	}
	return s.establish("login", resp)
}

// Register creates an account and signs it in.
func (s *Store) Register(ctx context.Context, reg api.Registration) (Session, error) {
	resp, err := s.auth.Register(ctx, reg)
	if err != nil {
		return Session{}, &AuthError{Op: "register", Err: err}
	}
	return s.establish("register", resp)
}

func (s *Store) establish(op string, resp api.AuthResponse) (Session, error) {
	sess := Session{
		Token:  strings.TrimSpace(resp.Token),
		UserID: resp.UserID,
		Role:   Role(resp.Role),
	}
	if !sess.Valid() {
		return Session{}, &AuthError{Op: op, Err: fmt.Errorf("malformed auth response")}
	}
	err := s.backend.Set(map[string]string{
		TokenKey:  sess.Token,
		UserIDKey: strconv.FormatInt(sess.UserID, 10),
		RoleKey:   string(sess.Role),
	})
	if err != nil {
		return Session{}, &AuthError{Op: op, Err: fmt.Errorf("persist session: %w", err)}
	}
	s.log.Info().Int64("user_id", sess.UserID).Str("role", string(sess.Role)).Msg("signed in")
	s.broadcast(sess.state())
	return sess, nil
}

// Logout removes the session and notifies subscribers. It never fails.
func (s *Store) Logout() {
	if err := s.backend.Delete(TokenKey, UserIDKey, RoleKey); err != nil {
		s.log.Error().Err(err).Msg("clear session")
	}
	s.log.Info().Msg("signed out")
	s.broadcast(State{})
}

// Current returns the stored session, if a complete one exists.
func (s *Store) Current() (Session, bool) {
	token, ok := s.read(TokenKey)
	if !ok {
		return Session{}, false
	}
	rawID, ok := s.read(UserIDKey)
	if !ok {
		return Session{}, false
	}
	role, ok := s.read(RoleKey)
	if !ok {
		return Session{}, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return Session{}, false
	}
	sess := Session{Token: token, UserID: id, Role: Role(strings.TrimSpace(role))}
	if !sess.Valid() {
		return Session{}, false
	}
	return sess, true
}

func (s *Store) read(key string) (string, bool) {
	value, ok, err := s.backend.Get(key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("read session")
		return "", false
	}
	return value, ok
}

// State returns the current state as subscribers would see it.
func (s *Store) State() State {
	sess, _ := s.Current()
	return sess.state()
}

// IsAuthenticated reports whether a complete session is stored.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// Token returns the bearer token, or "" when signed out.
func (s *Store) Token() string {
	sess, _ := s.Current()
	return sess.Token
}

// CurrentUserID returns the signed-in user's id.
func (s *Store) CurrentUserID() (int64, bool) {
	sess, ok := s.Current()
	return sess.UserID, ok
}

// CurrentRole returns the signed-in user's role.
func (s *Store) CurrentRole() (Role, bool) {
	sess, ok := s.Current()
	return sess.Role, ok
}

// IsTeacher reports whether the signed-in user is a teacher.
func (s *Store) IsTeacher() bool {
	role, ok := s.CurrentRole()
	return ok && role == RoleTeacher
}

// ExpiresAt reads the exp claim of a JWT token without verifying it.
func (s *Store) ExpiresAt() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	return tokenExpiry(token)
}

func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Subscribe registers fn and calls it immediately with the current state.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	fn(s.State())

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) broadcast(st State) {
	s.mu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
