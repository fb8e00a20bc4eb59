// Package tui provides the interactive Bubble Tea dashboard for spent.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spent-dev/spent/internal/api"
	"github.com/spent-dev/spent/internal/config"
	"github.com/spent-dev/spent/internal/model"
	"github.com/spent-dev/spent/internal/query"
	"github.com/spent-dev/spent/internal/session"
	"github.com/spent-dev/spent/internal/store"
	"github.com/spent-dev/spent/internal/tui/components"
	"github.com/spent-dev/spent/internal/tui/theme"
)

// mode is the auth gate: booting renders a neutral spinner and performs
// no navigation; login gates everything until the session resolves.
type mode int

const (
	modeBooting mode = iota
	modeLogin
	modeMain
)

const (
	minTerminalWidth = 70
	maxContentWidth  = 140

	noticeTTL = 4 * time.Second
)

// timeNow is a seam for tests that pin "today" in form defaults.
var timeNow = time.Now

// sessionReadyMsg is sent when session bootstrap resolves.
type sessionReadyMsg struct {
	err error
}

// queryDoneMsg reports a completed cached read. Gen lets the Update loop
// drop completions that a newer request for the same key superseded.
type queryDoneMsg struct {
	key query.Key
	gen uint64
	err error
}

// mutationDoneMsg reports a completed create/update/delete.
type mutationDoneMsg struct {
	action string // "created", "updated", "deleted"
	err    error
}

// authDoneMsg reports a completed login or register attempt.
type authDoneMsg struct {
	err error
}

// clearNoticeMsg expires a transient status-bar notice.
type clearNoticeMsg struct {
	seq int
}

// App is the root Bubble Tea model.
type App struct {
	session *session.Store
	client  *api.Client
	cache   *query.Cache
	state   *store.Store
	cfg     config.Config

	mode       mode
	width      int
	height     int
	activeTab  int
	pendingTab int // tab requested before the session resolved

	spinner spinner.Model

	// Transient status-bar notice.
	notice    string
	noticeErr bool
	noticeSeq int

	auth authState
	dash dashState
	exp  expensesState
	prof profileState
}

// NewApp creates the root model. requestedTab names the tab to land on
// after the auth gate clears ("" means the first tab).
func NewApp(sess *session.Store, client *api.Client, cache *query.Cache, st *store.Store, cfg config.Config, requestedTab string) App {
	theme.SetActive(cfg.Appearance.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	pending := components.TabIdxByName(requestedTab)
	if pending < 0 {
		pending = 0
	}

	// Configured default, then whatever the user last had selected.
	filter := model.DefaultFilter()
	if tf := cfg.General.DefaultTimeFilter; tf != "" {
		filter.TimeFilter = model.TimeFilter(tf)
	}
	if tf, err := st.LastTimeFilter(); err == nil && tf != "" {
		filter.TimeFilter = model.TimeFilter(tf)
	}

	return App{
		session:    sess,
		client:     client,
		cache:      cache,
		state:      st,
		cfg:        cfg,
		mode:       modeBooting,
		pendingTab: pending,
		spinner:    sp,
		dash:       dashState{filter: filter},
		exp:        newExpensesState(filter, cfg.General.PageSize),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.bootstrapCmd())
}

// bootstrapCmd resolves the persisted token off the event loop.
func (a App) bootstrapCmd() tea.Cmd {
	sess := a.session
	return func() tea.Msg {
		err := sess.Bootstrap(context.Background())
		return sessionReadyMsg{err: err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case sessionReadyMsg:
		if a.session.Authenticated() {
			return a.enterMain()
		}
		if msg.err != nil {
			a.notice, a.noticeErr = msg.err.Error(), true
		}
		return a.enterLogin()

	case authDoneMsg:
		return a.updateAuthDone(msg)

	case queryDoneMsg:
		return a.updateQueryDone(msg)

	case mutationDoneMsg:
		return a.updateMutationDone(msg)

	case profileDoneMsg:
		return a.updateProfileDone(msg)

	case clearNoticeMsg:
		if msg.seq == a.noticeSeq {
			a.notice = ""
		}
		return a, nil
	}

	switch a.mode {
	case modeLogin:
		return a.updateLogin(msg)
	case modeMain:
		return a.updateMain(msg)
	}
	return a, nil
}

// enterMain switches past the auth gate onto the tab the user originally
// asked for, and kicks off the initial reads.
func (a App) enterMain() (tea.Model, tea.Cmd) {
	a.mode = modeMain
	a.activeTab = a.pendingTab
	a.auth = authState{}
	return a, tea.Batch(
		a.fetchCategoriesCmd(),
		a.fetchSummaryCmd(a.dash.filter),
		a.fetchExpensesCmd(a.exp.filter),
	)
}

func (a App) updateMain(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Modal layers swallow input first.
	if a.exp.form != nil || a.exp.confirm != nil {
		return a.updateExpensesModal(msg)
	}
	if a.prof.form != nil {
		return a.updateProfileModal(msg)
	}
	if a.exp.searching {
		if key, ok := msg.(tea.KeyMsg); ok {
			return a.updateExpensesSearch(key)
		}
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch key.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	}

	if r := []rune(key.String()); len(r) == 1 {
		if idx := components.TabIdxByKey(r[0]); idx >= 0 && a.tabKeyAvailable(r[0]) {
			a.activeTab = idx
			return a, nil
		}
	}

	switch a.activeTab {
	case 0:
		return a.updateDashboard(key)
	case 1:
		return a.updateExpenses(key)
	case 2:
		return a.updateProfile(key)
	}
	return a, nil
}

// tabKeyAvailable keeps tab shortcuts from stealing keys a screen needs:
// the expenses tab owns 'd' (delete) and 'e' (edit) itself.
func (a App) tabKeyAvailable(key rune) bool {
	if a.activeTab == 1 && (key == 'd' || key == 'e') {
		return false
	}
	return true
}

func (a *App) setNotice(text string, isErr bool) tea.Cmd {
	a.notice = text
	a.noticeErr = isErr
	a.noticeSeq++
	seq := a.noticeSeq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

func (a App) contentWidth() int {
	w := a.width
	if w > maxContentWidth {
		w = maxContentWidth
	}
	return w
}

func (a App) View() string {
	if a.width > 0 && a.width < minTerminalWidth {
		return "\n  Terminal too narrow. Widen to at least 70 columns.\n"
	}

	switch a.mode {
	case modeBooting:
		return "\n\n  " + a.spinner.View() + " Checking session...\n"
	case modeLogin:
		return a.viewLogin()
	default:
		return a.viewMain()
	}
}

func (a App) viewMain() string {
	t := theme.Active
	cw := a.contentWidth()

	header := components.TabBar(a.activeTab)
	userLine := ""
	if u, ok := a.session.User(); ok {
		userLine = lipgloss.NewStyle().Foreground(t.TextDim).Render("  " + u.Name())
	}

	var body string
	switch a.activeTab {
	case 0:
		body = a.viewDashboard(cw)
	case 1:
		body = a.viewExpenses(cw)
	case 2:
		body = a.viewProfile(cw)
	}

	hints := a.hintsForTab()
	status := components.StatusBar(cw, hints, a.notice, a.noticeErr)

	return header + userLine + "\n\n" + body + "\n" + status
}

func (a App) hintsForTab() string {
	switch a.activeTab {
	case 1:
		return "[a]dd [e]dit [d]elete [/]search [f]ilter [c]ategory [h/l]page [tab]switch [q]uit"
	case 2:
		return "[n]ame [w]password [L]ogout [tab]switch [q]uit"
	default:
		return "[f]ilter [r]efresh [tab]switch [q]uit"
	}
}
