package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spent-dev/spent/internal/api"
)

// memStorage is an in-memory TokenStorage for tests.
type memStorage struct {
	token string
}

func (m *memStorage) Token() (string, error)  { return m.token, nil }
func (m *memStorage) SetToken(t string) error { m.token = t; return nil }
func (m *memStorage) ClearToken() error       { m.token = ""; return nil }

func newTestStore(t *testing.T, handler http.Handler) (*Store, *memStorage, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	storage := &memStorage{}
	s := New(storage)
	s.Bind(api.NewClient(srv.URL, s.TokenFunc()))
	return s, storage, srv
}

func profileHandler(wantToken string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/profile" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+wantToken {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Invalid token"}`))
			return
		}
		w.Write([]byte(`{"user":{"id":"u1","email":"ada@example.com","display_name":"Ada"}}`))
	})
}

func TestBootstrapWithoutToken(t *testing.T) {
	s, _, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without a token")
	}))

	require.NoError(t, s.Bootstrap(context.Background()))
	require.Equal(t, StateReady, s.State())
	require.False(t, s.Authenticated())
}

func TestBootstrapValidToken(t *testing.T) {
	s, storage, _ := newTestStore(t, profileHandler("tok-1"))
	storage.token = "tok-1"

	require.NoError(t, s.Bootstrap(context.Background()))
	require.Equal(t, StateReady, s.State())

	user, ok := s.User()
	require.True(t, ok)
	require.Equal(t, "ada@example.com", user.Email)
	require.Equal(t, "Ada", user.DisplayName)
}

func TestBootstrapRejectedTokenClearsStorage(t *testing.T) {
	s, storage, _ := newTestStore(t, profileHandler("tok-1"))
	storage.token = "tok-expired"

	// An expired token is a normal signed-out start, not an error.
	require.NoError(t, s.Bootstrap(context.Background()))
	require.Equal(t, StateReady, s.State())
	require.False(t, s.Authenticated())
	require.Empty(t, storage.token, "rejected token must be cleared from storage")
}

func TestBootstrapTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // connection refused from here on

	storage := &memStorage{token: "tok-1"}
	s := New(storage)
	s.Bind(api.NewClient(url, s.TokenFunc()))

	err := s.Bootstrap(context.Background())
	require.Error(t, err)
	require.Equal(t, StateReady, s.State(), "bootstrap must never park in Loading")
	require.False(t, s.Authenticated())
	require.Empty(t, storage.token)
}

func TestLoginPersistsTokenAndUser(t *testing.T) {
	s, storage, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %q, want /auth/login", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("login went out with Authorization %q, want anonymous", auth)
		}
		w.Write([]byte(`{"token":"tok-9","user":{"id":"u1","email":"ada@example.com","display_name":"Ada"}}`))
	}))

	require.NoError(t, s.Login(context.Background(), "ada@example.com", "hunter22"))
	require.True(t, s.Authenticated())
	require.Equal(t, "tok-9", storage.token)
	require.Equal(t, "tok-9", s.TokenFunc()())
}

func TestLoginFailureSurfacesServerMessage(t *testing.T) {
	s, storage, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid email or password"}`))
	}))

	err := s.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Invalid email or password")
	require.False(t, s.Authenticated())
	require.Empty(t, storage.token)
}

func TestRegisterSignsIn(t *testing.T) {
	s, storage, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("path = %q, want /auth/register", r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"token":"tok-new","user":{"id":"u2","email":"new@example.com"}}`))
	}))

	require.NoError(t, s.Register(context.Background(), "new@example.com", "hunter22", ""))
	require.True(t, s.Authenticated())
	require.Equal(t, "tok-new", storage.token)
}

func TestLogoutClearsEverything(t *testing.T) {
	s, storage, _ := newTestStore(t, profileHandler("tok-1"))
	storage.token = "tok-1"
	require.NoError(t, s.Bootstrap(context.Background()))
	require.True(t, s.Authenticated())

	s.Logout()

	require.False(t, s.Authenticated())
	require.Empty(t, storage.token)
	require.Empty(t, s.TokenFunc()())
}

func TestUpdateProfileMergesOnlyRequestedFields(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /auth/profile", profileHandler("tok-1"))
	mux.HandleFunc("PUT /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		// Server echoes both fields; only the requested one may merge.
		w.Write([]byte(`{"user":{"id":"u1","email":"ada@example.com","display_name":"Ada L.","photo_url":"https://pics/new.png"}}`))
	})

	s, storage, _ := newTestStore(t, mux)
	storage.token = "tok-1"
	require.NoError(t, s.Bootstrap(context.Background()))

	name := "Ada L."
	require.NoError(t, s.UpdateProfile(context.Background(), api.ProfileUpdate{DisplayName: &name}))

	user, _ := s.User()
	require.Equal(t, "Ada L.", user.DisplayName)
	require.Empty(t, user.PhotoURL, "photo must not merge when not requested")
}

func TestUpdateProfileWithoutTokenIsNoOp(t *testing.T) {
	s, _, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected while signed out")
	}))

	name := "ghost"
	require.NoError(t, s.UpdateProfile(context.Background(), api.ProfileUpdate{DisplayName: &name}))
}

func TestChangePasswordRequiresSession(t *testing.T) {
	s, _, _ := newTestStore(t, http.NotFoundHandler())
	err := s.ChangePassword(context.Background(), "old", "new")
	require.ErrorIs(t, err, ErrNotAuthenticated)
}
