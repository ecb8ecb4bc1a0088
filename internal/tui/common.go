package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gtodo/internal/guard"
	"gtodo/internal/service"
	"gtodo/internal/session"
)

// screen is the view currently shown below the header.
type screen int

const (
	screenLoading screen = iota
	screenLogin
	screenLists
	screenTodos
)

// HeaderDateLayout formats the current date in the header.
const HeaderDateLayout = "Monday, 2 January 2006"

// --- Messages ---

type routeMsg struct {
	route    guard.Route
	decision guard.Decision
}

type serviceMsg struct {
	svc service.Service
	err error
}

type loginStartedMsg struct {
	flow LoginFlow
	err  error
}

type loginDoneMsg struct {
	profile session.Profile
	err     error
}

// changedMsg reports that a view model emitted a change notification.
type changedMsg struct {
	source screen
}

type openListMsg struct {
	list service.TodoList
}

type backMsg struct{}

type logoutMsg struct{}

type loggedOutMsg struct {
	err error
}

type statusMsg struct {
	text    string
	isError bool
}

// --- Helpers ---

// waitChange delivers one changedMsg from ch, or nothing once ctx is done.
func waitChange(ctx context.Context, ch <-chan struct{}, source screen) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ch:
			return changedMsg{source: source}
		case <-ctx.Done():
			return nil
		}
	}
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

func overdue(deadline, now time.Time) bool {
	return !deadline.IsZero() && deadline.Before(now)
}
