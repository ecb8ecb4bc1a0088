package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"

	"gtodo/internal/dialog"
	"gtodo/internal/listview"
	"gtodo/internal/service"
	"gtodo/internal/session"
)

type listsModel struct {
	dash   *listview.Dashboard
	cursor int
	dialog *formDialogModel
}

func newListsModel(ctx context.Context, svc service.Service, profile session.Profile, log logr.Logger) listsModel {
	return listsModel{dash: listview.NewDashboard(ctx, svc, profile, log)}
}

func (m listsModel) init() tea.Cmd {
	return tea.Batch(m.load(), m.watch())
}

func (m listsModel) watch() tea.Cmd {
	return waitChange(m.dash.Context(), m.dash.Changes(), screenLists)
}

func (m listsModel) load() tea.Cmd {
	dash := m.dash
	return func() tea.Msg {
		dash.Load(dash.Context())
		return nil
	}
}

func (m listsModel) close() {
	if m.dash != nil {
		m.dash.Close()
	}
}

func (m listsModel) update(msg tea.Msg) (listsModel, tea.Cmd) {
	if m.dialog != nil {
		closed, cmd := m.dialog.update(msg)
		if !closed {
			return m, cmd
		}
		dlg := m.dialog.dlg
		m.dialog = nil
		return m, m.create(dlg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	lists := m.dash.Lists()
	switch {
	case key.Matches(km, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, keys.Down):
		if m.cursor < len(lists)-1 {
			m.cursor++
		}
	case key.Matches(km, keys.Enter):
		if len(lists) > 0 {
			list := lists[clamp(m.cursor, len(lists))]
			return m, func() tea.Msg { return openListMsg{list: list} }
		}
	case key.Matches(km, keys.New):
		dlg, err := m.dash.OpenCreate()
		if err != nil {
			return m, statusCmd(err.Error(), true)
		}
		m.dialog = newFormDialog(dlg)
		return m, m.dialog.init()
	case key.Matches(km, keys.Reload):
		return m, m.load()
	case key.Matches(km, keys.Logout):
		return m, func() tea.Msg { return logoutMsg{} }
	}
	return m, nil
}

// create hands the closed dialog's result to the dashboard.
func (m listsModel) create(dlg *dialog.FormDialog) tea.Cmd {
	dash := m.dash
	return func() tea.Msg {
		ctx := dash.Context()
		res, err := dlg.Wait(ctx)
		if err != nil {
			return nil
		}
		list, err := dash.Create(ctx, res)
		if err != nil {
			return statusMsg{text: "Create list failed: " + err.Error(), isError: true}
		}
		if res.Cancelled {
			return nil
		}
		return statusMsg{text: fmt.Sprintf("Created %q", list.Title)}
	}
}

func (m listsModel) view(width int) string {
	if m.dialog != nil {
		return m.dialog.view(width)
	}

	w := max(width-4, 20)
	title := titleStyle.Render("Your lists")
	lists := m.dash.Lists()
	if len(lists) == 0 {
		return panelStyle.Width(w).Render(strings.Join([]string{
			title,
			"",
			mutedStyle.Render("No lists yet. Press n to create one."),
		}, "\n"))
	}

	rows := []string{title, ""}
	cursor := clamp(m.cursor, len(lists))
	for i, l := range lists {
		prefix := "  "
		style := normalItemStyle
		if i == cursor {
			prefix = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(prefix+l.Title))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: open  n: new list  r: reload  o: sign out"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
