package tui

import "testing"

func TestValidEmail(t *testing.T) {
	valid := []string{"ada@example.com", " a@b.co ", "x.y@sub.domain.org"}
	for _, s := range valid {
		if err := validEmail(s); err != nil {
			t.Errorf("validEmail(%q) = %v, want nil", s, err)
		}
	}
	invalid := []string{"", "ada", "@example.com", "ada@", "ada@example"}
	for _, s := range invalid {
		if err := validEmail(s); err == nil {
			t.Errorf("validEmail(%q) = nil, want error", s)
		}
	}
}

func TestValidPassword(t *testing.T) {
	if err := validPassword("hunter22"); err != nil {
		t.Errorf("validPassword(hunter22) = %v", err)
	}
	if err := validPassword("12345"); err == nil {
		t.Error("validPassword(12345) = nil, want error")
	}
}
