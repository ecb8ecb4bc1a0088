package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/oauth2"

	"gtodo/internal/session"
)

// LoginFlow is a pending browser sign-in.
type LoginFlow interface {
	URL() string
	Wait(ctx context.Context) (*oauth2.Token, error)
	Close()
}

type loginModel struct {
	flow    LoginFlow
	url     string
	waiting bool
	err     string
}

func (m loginModel) update(msg tea.Msg, a *App) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginStartedMsg:
		if msg.err != nil {
			m.waiting = false
			m.err = msg.err.Error()
			return m, nil
		}
		m.flow = msg.flow
		m.url = msg.flow.URL()
		return m, finishLogin(a.ctx, msg.flow, a.opts.Session, a.opts.ResolveProfile)

	case loginDoneMsg:
		m.waiting = false
		m.flow = nil
		m.url = ""
		if msg.err != nil {
			m.err = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) && !m.waiting {
			if a.opts.StartLogin == nil {
				m.err = "oauth_client.json not found (see: gtodo login)"
				return m, nil
			}
			m.waiting = true
			m.err = ""
			start := a.opts.StartLogin
			return m, func() tea.Msg {
				flow, err := start()
				return loginStartedMsg{flow: flow, err: err}
			}
		}
	}
	return m, nil
}

// finishLogin waits for the browser, resolves the profile and stores the session.
func finishLogin(ctx context.Context, flow LoginFlow, sess *session.Manager, resolve func(context.Context, *oauth2.Token) (session.Profile, error)) tea.Cmd {
	return func() tea.Msg {
		defer flow.Close()
		tok, err := flow.Wait(ctx)
		if err != nil {
			return loginDoneMsg{err: err}
		}
		profile, err := resolve(ctx, tok)
		if err != nil {
			return loginDoneMsg{err: fmt.Errorf("fetch profile: %w", err)}
		}
		if err := sess.Store(tok, profile); err != nil {
			return loginDoneMsg{err: fmt.Errorf("save session: %w", err)}
		}
		return loginDoneMsg{profile: profile}
	}
}

func (m loginModel) view(width int) string {
	rows := []string{titleStyle.Render("Sign in"), ""}
	switch {
	case m.url != "":
		rows = append(rows,
			"Open this URL in your browser:",
			"",
			highlightStyle.Render(m.url),
			"",
			mutedStyle.Render("Waiting for the browser to redirect back..."),
		)
	case m.waiting:
		rows = append(rows, mutedStyle.Render("Starting sign-in..."))
	default:
		rows = append(rows, "You are not signed in.", "", mutedStyle.Render("  enter: sign in with Google  q: quit"))
	}
	if m.err != "" {
		rows = append(rows, "", errorStyle.Render("Error: "+m.err))
	}
	return panelStyle.Width(max(width-4, 20)).Render(strings.Join(rows, "\n"))
}
