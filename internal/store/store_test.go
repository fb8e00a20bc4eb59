package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTokenRoundtrip(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "state.db"))

	tok, err := s.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "" {
		t.Fatalf("fresh store token = %q, want empty", tok)
	}

	if err := s.SetToken("tok-1"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	tok, err = s.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "tok-1" {
		t.Fatalf("token = %q, want tok-1", tok)
	}

	// Overwrite, then clear.
	if err := s.SetToken("tok-2"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	tok, _ = s.Token()
	if tok != "tok-2" {
		t.Fatalf("token = %q, want tok-2", tok)
	}

	if err := s.ClearToken(); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	tok, _ = s.Token()
	if tok != "" {
		t.Fatalf("token after clear = %q, want empty", tok)
	}
}

func TestTokenSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SetToken("tok-persist"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s = openTestStore(t, path)
	tok, err := s.Token()
	if err != nil {
		t.Fatalf("Token after reopen: %v", err)
	}
	if tok != "tok-persist" {
		t.Fatalf("token after reopen = %q, want tok-persist", tok)
	}
}

func TestLastTimeFilter(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "state.db"))

	tf, err := s.LastTimeFilter()
	if err != nil {
		t.Fatalf("LastTimeFilter: %v", err)
	}
	if tf != "" {
		t.Fatalf("fresh store filter = %q, want empty", tf)
	}

	if err := s.SetLastTimeFilter("last-month"); err != nil {
		t.Fatalf("SetLastTimeFilter: %v", err)
	}
	tf, _ = s.LastTimeFilter()
	if tf != "last-month" {
		t.Fatalf("filter = %q, want last-month", tf)
	}
}
