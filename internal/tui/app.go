// Package tui is the interactive terminal front end: a login screen, the
// dashboard of lists and the to-do list screen.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"
	"golang.org/x/oauth2"

	"gtodo/internal/guard"
	"gtodo/internal/service"
	"gtodo/internal/session"
)

// Options wires the UI to the session and the backend.
type Options struct {
	Session *session.Manager
	// NewService builds the backend client once a session exists.
	NewService func(ctx context.Context) (service.Service, error)
	// StartLogin begins a browser sign-in. Nil when no OAuth client is configured.
	StartLogin func() (LoginFlow, error)
	// ResolveProfile defaults to session.ResolveProfile.
	ResolveProfile func(ctx context.Context, tok *oauth2.Token) (session.Profile, error)
	// AuthWait bounds how long a guarded route waits for a token.
	AuthWait   time.Duration
	SearchWait time.Duration
	Location   *time.Location
	Now        func() time.Time
	Log        logr.Logger
}

// App is the root Bubble Tea model.
type App struct {
	ctx   context.Context
	opts  Options
	guard *guard.Guard

	width  int
	height int

	screen screen
	svc    service.Service
	login  loginModel
	lists  listsModel
	todos  todosModel

	help      help.Model
	showHelp  bool
	status    string
	statusErr bool
}

// NewApp returns the root model. ctx bounds every backend call the UI makes.
func NewApp(ctx context.Context, opts Options) App {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ResolveProfile == nil {
		opts.ResolveProfile = func(ctx context.Context, tok *oauth2.Token) (session.Profile, error) {
			return session.ResolveProfile(ctx, tok)
		}
	}

	h := help.New()
	h.ShowAll = false

	return App{
		ctx:    ctx,
		opts:   opts,
		guard:  guard.New(opts.Session),
		screen: screenLoading,
		help:   h,
	}
}

// Run shows the UI until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewApp(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	m, err := p.Run()
	if app, ok := m.(App); ok {
		app.close()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (a App) Init() tea.Cmd {
	return a.navigate(guard.RouteDashboard)
}

// navigate asks the guard whether route may be shown.
func (a App) navigate(route guard.Route) tea.Cmd {
	g, ctx, wait := a.guard, a.ctx, a.opts.AuthWait
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, wait)
		defer cancel()
		return routeMsg{route: route, decision: g.CanActivate(ctx, route)}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			a.close()
			return a, tea.Quit
		}
		if !a.capturing() {
			switch {
			case key.Matches(msg, keys.Quit):
				a.close()
				return a, tea.Quit
			case key.Matches(msg, keys.Help):
				a.showHelp = !a.showHelp
				a.help.ShowAll = a.showHelp
				return a, nil
			}
		}

	case routeMsg:
		return a.enter(msg)

	case serviceMsg:
		if msg.err != nil {
			a.screen = screenLogin
			a.login = loginModel{err: msg.err.Error()}
			return a, nil
		}
		a.svc = msg.svc
		profile, _ := a.opts.Session.Profile()
		a.lists = newListsModel(a.ctx, a.svc, profile, a.opts.Log)
		a.screen = screenLists
		return a, a.lists.init()

	case loginDoneMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg, &a)
		if msg.err != nil {
			return a, cmd
		}
		a.status, a.statusErr = "Signed in as "+msg.profile.DisplayName(), false
		return a, a.navigate(guard.RouteDashboard)

	case changedMsg:
		switch msg.source {
		case screenLists:
			if a.lists.dash != nil {
				a.lists.cursor = clamp(a.lists.cursor, len(a.lists.dash.Lists()))
				return a, a.lists.watch()
			}
		case screenTodos:
			if a.todos.lv != nil {
				a.todos.cursor = clamp(a.todos.cursor, len(a.todos.lv.Filtered()))
				return a, a.todos.watch()
			}
		}
		return a, nil

	case openListMsg:
		a.todos.close()
		a.todos = newTodosModel(a.ctx, a.svc, msg.list, a.opts)
		a.screen = screenTodos
		a.status = ""
		return a, a.todos.init()

	case backMsg:
		a.todos.close()
		a.todos = todosModel{}
		a.screen = screenLists
		return a, a.lists.load()

	case logoutMsg:
		sess, ctx := a.opts.Session, a.ctx
		return a, func() tea.Msg {
			_, err := sess.Logout(ctx)
			return loggedOutMsg{err: err}
		}

	case loggedOutMsg:
		if msg.err != nil {
			a.status, a.statusErr = "Sign out failed: "+msg.err.Error(), true
			return a, nil
		}
		a.close()
		a.svc = nil
		a.lists = listsModel{}
		a.todos = todosModel{}
		a.status, a.statusErr = "Signed out", false
		return a, a.navigate(guard.RouteDashboard)

	case statusMsg:
		a.status, a.statusErr = msg.text, msg.isError
		return a, nil
	}

	return a.updateScreen(msg)
}

// enter applies a guard decision: follow the redirect or show the route.
func (a App) enter(msg routeMsg) (tea.Model, tea.Cmd) {
	if !msg.decision.Allow {
		return a, a.navigate(msg.decision.Redirect)
	}

	switch msg.route {
	case guard.RouteLogin:
		a.screen = screenLogin
		a.login = loginModel{}
		return a, nil
	case guard.RouteDashboard:
		if a.svc != nil {
			a.screen = screenLists
			return a, a.lists.load()
		}
		a.screen = screenLoading
		newService, ctx := a.opts.NewService, a.ctx
		return a, func() tea.Msg {
			svc, err := newService(ctx)
			return serviceMsg{svc: svc, err: err}
		}
	}
	return a, nil
}

func (a App) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case screenLogin:
		a.login, cmd = a.login.update(msg, &a)
	case screenLists:
		a.lists, cmd = a.lists.update(msg)
	case screenTodos:
		a.todos, cmd = a.todos.update(msg)
	}
	return a, cmd
}

// capturing reports whether the active screen is taking text input.
func (a App) capturing() bool {
	switch a.screen {
	case screenLists:
		return a.lists.dialog != nil
	case screenTodos:
		return a.todos.capturing()
	}
	return false
}

func (a App) close() {
	a.todos.close()
	a.lists.close()
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.screen {
	case screenLoading:
		content = mutedStyle.Render("  Loading...")
	case screenLogin:
		content = a.login.view(a.width)
	case screenLists:
		content = a.lists.view(a.width)
	case screenTodos:
		content = a.todos.view(a.width)
	}

	contentHeight := a.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 1 {
		contentHeight = 1
	}
	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	title := brandStyle.Render("gtodo")

	right := []string{a.opts.Now().Format(HeaderDateLayout)}
	if _, ok := a.opts.Session.CurrentToken(); ok {
		if p, ok := a.opts.Session.Profile(); ok {
			right = append(right, accentStyle.Render(p.DisplayName()))
		}
	}
	info := mutedStyle.Render(strings.Join(right, "  ·  "))

	gap := a.width - lipgloss.Width(title) - lipgloss.Width(info) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, info))
}

func (a App) renderFooter() string {
	left := footerStyle.Render(a.help.View(keys))

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(a.status + " ")
		} else {
			status = mutedStyle.Render(a.status + " ")
		}
	}

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}
