package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/spent-dev/spent/internal/api"
	"github.com/spent-dev/spent/internal/cli"
	"github.com/spent-dev/spent/internal/tui/components"
	"github.com/spent-dev/spent/internal/tui/theme"
)

// profileState holds the profile tab's modal form, when one is open.
type profileState struct {
	form *huh.Form
	kind string // "profile" or "password"
	busy bool   // a profile or password call is in flight

	displayName string
	photoURL    string

	currentPW string
	newPW     string
	confirmPW string
}

// profileDoneMsg reports a completed profile or password call.
type profileDoneMsg struct {
	kind string
	err  error
}

func (a App) updateProfile(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.prof.busy {
		return a, nil
	}
	switch key.String() {
	case "n":
		u, ok := a.session.User()
		if !ok {
			return a, nil
		}
		a.prof = profileState{kind: "profile", displayName: u.DisplayName, photoURL: u.PhotoURL}
		a.prof.form = huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Display name").Value(&a.prof.displayName),
			huh.NewInput().Title("Photo URL").Value(&a.prof.photoURL),
		)).WithShowHelp(false)
		return a, a.prof.form.Init()
	case "w":
		a.prof = profileState{kind: "password"}
		a.prof.form = huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Current password").EchoMode(huh.EchoModePassword).Value(&a.prof.currentPW),
			huh.NewInput().Title("New password").EchoMode(huh.EchoModePassword).Value(&a.prof.newPW).Validate(validPassword),
			huh.NewInput().Title("Confirm new password").EchoMode(huh.EchoModePassword).Value(&a.prof.confirmPW),
		)).WithShowHelp(false)
		return a, a.prof.form.Init()
	case "L":
		// Logout clears the session and the persisted token; the gate
		// drops back to the login screen.
		a.session.Logout()
		return a.enterLogin()
	}
	return a, nil
}

func (a App) updateProfileModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		a.prof.form = nil
		return a, nil
	}

	form, cmd := a.prof.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.prof.form = f
	}

	if a.prof.form.State == huh.StateCompleted {
		return a.submitProfileForm(cmd)
	}
	if a.prof.form.State == huh.StateAborted {
		a.prof.form = nil
		return a, nil
	}
	return a, cmd
}

// submitProfileForm dispatches the completed form exactly once. The form
// is dropped and the tab marked busy before the call goes out, so stray
// input cannot re-trigger the mutation while it is in flight.
func (a App) submitProfileForm(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	sess := a.session
	st := a.prof
	a.prof.form = nil

	if st.kind == "password" {
		if st.newPW != st.confirmPW {
			return a, a.setNotice("passwords do not match", true)
		}
		a.prof.busy = true
		return a, tea.Batch(cmd, func() tea.Msg {
			err := sess.ChangePassword(context.Background(), st.currentPW, st.newPW)
			return profileDoneMsg{kind: "password", err: err}
		})
	}

	displayName := strings.TrimSpace(st.displayName)
	photoURL := strings.TrimSpace(st.photoURL)
	a.prof.busy = true
	return a, tea.Batch(cmd, func() tea.Msg {
		err := sess.UpdateProfile(context.Background(), api.ProfileUpdate{
			DisplayName: &displayName,
			PhotoURL:    &photoURL,
		})
		return profileDoneMsg{kind: "profile", err: err}
	})
}

// updateProfileDone clears the busy flag once the call resolves.
func (a App) updateProfileDone(msg profileDoneMsg) (tea.Model, tea.Cmd) {
	a.prof.busy = false
	if msg.err != nil {
		return a, a.setNotice(msg.err.Error(), true)
	}
	if msg.kind == "password" {
		return a, a.setNotice("Password changed", false)
	}
	return a, a.setNotice("Profile updated", false)
}

func (a App) viewProfile(cw int) string {
	t := theme.Active

	if a.prof.form != nil {
		title := "Edit Profile"
		if a.prof.kind == "password" {
			title = "Change Password"
		}
		return components.Card(title, a.prof.form.View(), cw)
	}

	u, ok := a.session.User()
	if !ok {
		return components.Card("Profile", "Not signed in", cw)
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	row := func(label, value string) string {
		if value == "" {
			value = "—"
		}
		return labelStyle.Render(padRight(label, 14)) + valueStyle.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(row("Name", u.Name()))
	b.WriteString(row("Email", u.Email))
	b.WriteString(row("Photo URL", u.PhotoURL))
	b.WriteString(row("Member since", cli.FormatDate(u.CreatedAt)))
	b.WriteByte('\n')
	b.WriteString(labelStyle.Render("API: ") + valueStyle.Render(a.client.BaseURL()))

	widths := components.SplitWidths(cw, 2)
	card := components.Card("Profile", b.String(), widths[0])

	help := labelStyle.Render("n") + valueStyle.Render("  edit display name / photo\n") +
		labelStyle.Render("w") + valueStyle.Render("  change password\n") +
		labelStyle.Render("L") + valueStyle.Render("  log out")
	helpCard := components.Card("Account", help, widths[1])

	return components.JoinCards(card, helpCard)
}
