// Package session holds the single authoritative answer to "who is logged
// in", backed by a persisted token.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spent-dev/spent/internal/api"
	"github.com/spent-dev/spent/internal/model"
)

// State is the bootstrap lifecycle. Ready does not imply authenticated;
// it means the initial token check has resolved one way or the other.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
)

// ErrNotAuthenticated is returned by operations that need a live session.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// TokenStorage persists the bearer token across runs. Implemented by the
// SQLite client store; tests substitute an in-memory fake.
type TokenStorage interface {
	Token() (string, error)
	SetToken(string) error
	ClearToken() error
}

// Store is the session store. Constructed once at startup and shared by
// every command and screen; reset only via Logout.
type Store struct {
	client  *api.Client
	storage TokenStorage

	mu    sync.RWMutex
	state State
	token string
	user  *model.User
}

// New creates a session store. The API client must have been built with
// this store's TokenFunc so requests pick up the token atomically with the
// state that scheduled them.
func New(storage TokenStorage) *Store {
	return &Store{storage: storage, state: StateIdle}
}

// Bind attaches the API client. Separate from New because the client needs
// the store's TokenFunc first.
func (s *Store) Bind(client *api.Client) { s.client = client }

// TokenFunc exposes the current token for the API client's bearer header.
func (s *Store) TokenFunc() api.TokenFunc {
	return func() string {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.token
	}
}

// State reports the bootstrap lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the current user, or false when unauthenticated.
func (s *Store) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// Authenticated reports whether a user is present.
func (s *Store) Authenticated() bool {
	_, ok := s.User()
	return ok
}

// Bootstrap resolves the persisted token into a session. Absent token:
// Ready and unauthenticated. Present token: the profile endpoint decides;
// any failure, transport or rejection alike, clears the persisted token and
// lands Ready/unauthenticated. It never leaves the store in Loading.
func (s *Store) Bootstrap(ctx context.Context) error {
	tok, err := s.storage.Token()
	if err != nil {
		tok = "" // unreadable storage degrades to signed-out, not a crash
	}

	s.mu.Lock()
	s.state = StateLoading
	s.token = tok
	s.mu.Unlock()

	if tok == "" {
		s.mu.Lock()
		s.state = StateReady
		s.mu.Unlock()
		return nil
	}

	user, err := s.client.Profile(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateReady
	if err != nil {
		s.token = ""
		s.user = nil
		_ = s.storage.ClearToken()
		if errors.Is(err, api.ErrUnauthorized) {
			return nil // expired token is a normal signed-out start
		}
		return fmt.Errorf("session: bootstrap: %w", err)
	}
	s.user = &user
	return nil
}

// Login authenticates and persists the returned token. On failure the
// session stays unauthenticated and the error carries the server's
// message. Concurrent calls are not deduplicated; the caller disables the
// submitting control while one is outstanding.
func (s *Store) Login(ctx context.Context, email, password string) error {
	creds, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.accept(creds)
}

// Register creates an account; a 2xx response is created-and-logged-in.
func (s *Store) Register(ctx context.Context, email, password, displayName string) error {
	creds, err := s.client.Register(ctx, email, password, displayName)
	if err != nil {
		return err
	}
	return s.accept(creds)
}

// accept installs credentials. The persisted write and the in-memory write
// happen under one lock so a reader can never observe a token without the
// matching user load having been scheduled.
func (s *Store) accept(creds api.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.SetToken(creds.Token); err != nil {
		return fmt.Errorf("session: persisting token: %w", err)
	}
	s.token = creds.Token
	user := creds.User
	s.user = &user
	s.state = StateReady
	return nil
}

// Logout clears the in-memory session and the persisted token
// synchronously. No server call: there is no server-side session to
// invalidate.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	_ = s.storage.ClearToken()
}

// UpdateProfile sends a partial profile update. Without a token it is a
// silent no-op. On success only the fields the server echoed back are
// merged into the local user; on failure local state is untouched.
func (s *Store) UpdateProfile(ctx context.Context, upd api.ProfileUpdate) error {
	s.mu.RLock()
	hasToken := s.token != ""
	s.mu.RUnlock()
	if !hasToken {
		return nil
	}

	echoed, err := s.client.UpdateProfile(ctx, upd)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	if upd.DisplayName != nil {
		s.user.DisplayName = echoed.DisplayName
	}
	if upd.PhotoURL != nil {
		s.user.PhotoURL = echoed.PhotoURL
	}
	return nil
}

// ChangePassword verifies and replaces the password server-side.
func (s *Store) ChangePassword(ctx context.Context, current, updated string) error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	return s.client.ChangePassword(ctx, current, updated)
}
