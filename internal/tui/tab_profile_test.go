package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/spent-dev/spent/internal/api"
	"github.com/spent-dev/spent/internal/session"
)

// memStorage is an in-memory TokenStorage for tests.
type memStorage struct {
	token string
}

func (m *memStorage) Token() (string, error)  { return m.token, nil }
func (m *memStorage) SetToken(t string) error { m.token = t; return nil }
func (m *memStorage) ClearToken() error       { m.token = ""; return nil }

// runCmds executes a command tree synchronously and collects the
// messages it produces, flattening batches.
func runCmds(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmds(t, c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func newProfileTestApp(t *testing.T, puts *atomic.Int32) App {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":{"id":"u1","email":"ada@example.com","display_name":"Ada"}}`))
	})
	mux.HandleFunc("PUT /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		puts.Add(1)
		w.Write([]byte(`{"user":{"id":"u1","email":"ada@example.com","display_name":"Ada B"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	sess := session.New(&memStorage{token: "tok-1"})
	sess.Bind(api.NewClient(srv.URL, sess.TokenFunc()))
	if err := sess.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	a := newTestApp()
	a.session = sess
	a.mode = modeMain
	a.activeTab = 2
	return a
}

func TestProfileFormSubmitsOnce(t *testing.T) {
	var puts atomic.Int32
	a := newProfileTestApp(t, &puts)

	a.prof = profileState{kind: "profile", displayName: "Ada B"}
	a.prof.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Display name").Value(&a.prof.displayName),
	)).WithShowHelp(false)
	a.prof.form.State = huh.StateCompleted

	enter := tea.KeyMsg{Type: tea.KeyEnter}
	next, cmd := a.updateProfileModal(enter)
	got := next.(App)

	if got.prof.form != nil {
		t.Fatal("form should be dropped when the submission dispatches")
	}
	if !got.prof.busy {
		t.Fatal("tab should be busy while the update is in flight")
	}

	var done []tea.Msg
	for _, msg := range runCmds(t, cmd) {
		if _, ok := msg.(profileDoneMsg); ok {
			done = append(done, msg)
		}
	}
	if len(done) != 1 {
		t.Fatalf("submission produced %d completions, want 1", len(done))
	}
	if n := puts.Load(); n != 1 {
		t.Fatalf("PUT /auth/profile sent %d times, want 1", n)
	}

	// A stray keypress arriving before the completion must not open a
	// new form or re-send the mutation.
	next, cmd = got.Update(enter)
	got = next.(App)
	runCmds(t, cmd)
	if got.prof.form != nil {
		t.Fatal("stray key reopened the form while a call was in flight")
	}
	if n := puts.Load(); n != 1 {
		t.Fatalf("PUT /auth/profile sent %d times after a stray keypress, want 1", n)
	}

	// The completion clears the busy flag and reports success.
	next, _ = got.Update(done[0])
	got = next.(App)
	if got.prof.busy {
		t.Fatal("completion should clear the busy flag")
	}
	if got.notice != "Profile updated" {
		t.Fatalf("notice = %q, want %q", got.notice, "Profile updated")
	}
}

func TestProfileShortcutsBlockedWhileBusy(t *testing.T) {
	var puts atomic.Int32
	a := newProfileTestApp(t, &puts)
	a.prof.busy = true

	for _, k := range []rune{'n', 'w'} {
		next, cmd := a.updateProfile(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{k}})
		if cmd != nil {
			t.Fatalf("%q produced a command while busy", k)
		}
		if got := next.(App); got.prof.form != nil {
			t.Fatalf("%q opened a form while busy", k)
		}
	}
}
