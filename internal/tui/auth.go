package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/spent-dev/spent/internal/tui/theme"
)

// authState drives the login/register gate.
type authState struct {
	form     *huh.Form
	register bool
	busy     bool // an attempt is outstanding; the form is disabled

	email       string
	password    string
	displayName string
}

func validEmail(s string) error {
	s = strings.TrimSpace(s)
	at := strings.IndexByte(s, '@')
	if at <= 0 || at == len(s)-1 || !strings.Contains(s[at+1:], ".") {
		return errEmailInvalid
	}
	return nil
}

func validPassword(s string) error {
	if len(s) < 6 {
		return errPasswordShort
	}
	return nil
}

var (
	errEmailInvalid  = errString("enter a valid email address")
	errPasswordShort = errString("password must be at least 6 characters")
)

type errString string

func (e errString) Error() string { return string(e) }

func newAuthForm(st *authState) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Email").
			Value(&st.email).
			Validate(validEmail),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&st.password).
			Validate(validPassword),
	}
	if st.register {
		fields = append(fields,
			huh.NewInput().
				Title("Display name (optional)").
				Value(&st.displayName),
		)
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(false)
}

// enterLogin resets the gate to the sign-in form.
func (a App) enterLogin() (tea.Model, tea.Cmd) {
	a.mode = modeLogin
	a.auth = authState{}
	a.auth.form = newAuthForm(&a.auth)
	return a, a.auth.form.Init()
}

func (a App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+r":
			// Toggle between sign in and create account.
			if !a.auth.busy {
				a.auth.register = !a.auth.register
				a.auth.form = newAuthForm(&a.auth)
				return a, a.auth.form.Init()
			}
			return a, nil
		}
	}

	if a.auth.busy || a.auth.form == nil {
		return a, nil
	}

	form, cmd := a.auth.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.auth.form = f
	}

	if a.auth.form.State == huh.StateCompleted {
		a.auth.busy = true
		return a, tea.Batch(cmd, a.submitAuthCmd())
	}
	if a.auth.form.State == huh.StateAborted {
		return a, tea.Quit
	}
	return a, cmd
}

// submitAuthCmd runs the login or register call off the event loop.
func (a App) submitAuthCmd() tea.Cmd {
	sess := a.session
	st := a.auth
	return func() tea.Msg {
		var err error
		if st.register {
			err = sess.Register(context.Background(), strings.TrimSpace(st.email), st.password, strings.TrimSpace(st.displayName))
		} else {
			err = sess.Login(context.Background(), strings.TrimSpace(st.email), st.password)
		}
		return authDoneMsg{err: err}
	}
}

func (a App) updateAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Server-provided message; session remains unauthenticated.
		m, cmd := a.enterLogin()
		app := m.(App)
		notice := app.setNotice(msg.err.Error(), true)
		return app, tea.Batch(cmd, notice)
	}
	return a.enterMain()
}

func (a App) viewLogin() string {
	t := theme.Active

	titleStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	errStyle := lipgloss.NewStyle().Foreground(t.Red)

	title := "Sign in to spent"
	action := "create an account"
	if a.auth.register {
		title = "Create your account"
		action = "sign in instead"
	}

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n  ")
	b.WriteString(mutedStyle.Render(a.client.BaseURL()))
	b.WriteString("\n\n")

	if a.auth.busy {
		b.WriteString("  " + a.spinner.View() + " Signing in...\n")
	} else if a.auth.form != nil {
		b.WriteString(a.auth.form.View())
	}

	if a.notice != "" && a.noticeErr {
		b.WriteString("\n  ")
		b.WriteString(errStyle.Render(a.notice))
	}

	b.WriteString("\n\n  ")
	b.WriteString(mutedStyle.Render("ctrl+r to " + action + "  ·  ctrl+c to quit"))
	b.WriteString("\n")
	return b.String()
}
