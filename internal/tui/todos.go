package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"gtodo/internal/dialog"
	"gtodo/internal/filter"
	"gtodo/internal/listview"
	"gtodo/internal/service"
	"gtodo/internal/textcase"
)

type todosModel struct {
	lv   *listview.TodoListView
	list service.TodoList
	loc  *time.Location
	now  func() time.Time

	cursor    int
	status    filter.Status
	search    textinput.Model
	searching bool

	dialog  *formDialogModel
	editing service.Todo

	// Delete confirmation; the pointer survives value copies.
	confirm       *huh.Form
	confirmDelete *bool
	deleting      service.Todo
}

func newTodosModel(ctx context.Context, svc service.Service, list service.TodoList, opts Options) todosModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search titles"

	return todosModel{
		lv: listview.NewTodoListView(ctx, svc, listview.Options{
			SearchWait: opts.SearchWait,
			Location:   opts.Location,
			Log:        opts.Log,
		}),
		list:   list,
		loc:    opts.Location,
		now:    opts.Now,
		status: filter.StatusAll,
		search: ti,
	}
}

func (m todosModel) init() tea.Cmd {
	return tea.Batch(m.load(), m.watch())
}

func (m todosModel) watch() tea.Cmd {
	return waitChange(m.lv.Context(), m.lv.Changes(), screenTodos)
}

func (m todosModel) load() tea.Cmd {
	v, list := m.lv, m.list
	return func() tea.Msg {
		v.Load(v.Context(), list)
		return nil
	}
}

func (m todosModel) close() {
	if m.lv != nil {
		m.lv.Close()
	}
}

// capturing reports whether keys go to an input rather than the key map.
func (m todosModel) capturing() bool {
	return m.searching || m.dialog != nil || m.confirm != nil
}

func (m todosModel) update(msg tea.Msg) (todosModel, tea.Cmd) {
	if m.dialog != nil {
		closed, cmd := m.dialog.update(msg)
		if !closed {
			return m, cmd
		}
		dlg, target := m.dialog.dlg, m.editing
		m.dialog = nil
		return m, m.save(dlg, target)
	}
	if m.confirm != nil {
		return m.updateConfirm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.searching {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if m.searching {
		return m.updateSearch(km)
	}

	visible := m.lv.Filtered()
	m.cursor = clamp(m.cursor, len(visible))
	switch {
	case key.Matches(km, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(km, keys.Toggle):
		if len(visible) > 0 {
			return m, m.toggle(visible[m.cursor])
		}
	case key.Matches(km, keys.New):
		dlg, err := m.lv.OpenAdd()
		if err != nil {
			return m, statusCmd(err.Error(), true)
		}
		m.dialog = newFormDialog(dlg)
		m.editing = service.Todo{}
		return m, m.dialog.init()
	case key.Matches(km, keys.Edit):
		if len(visible) == 0 {
			return m, nil
		}
		todo := visible[m.cursor]
		dlg, err := m.lv.OpenEdit(todo)
		if err != nil {
			return m, statusCmd(err.Error(), true)
		}
		m.dialog = newFormDialog(dlg)
		m.editing = todo
		return m, m.dialog.init()
	case key.Matches(km, keys.Delete):
		if len(visible) == 0 {
			return m, nil
		}
		m.deleting = visible[m.cursor]
		m.confirmDelete = new(bool)
		m.confirm = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Delete %q?", m.deleting.Title)).
					Affirmative("Delete").
					Negative("Cancel").
					Value(m.confirmDelete),
			),
		).WithShowHelp(false)
		return m, m.confirm.Init()
	case key.Matches(km, keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(km, keys.Status):
		m.status = m.status.Next()
		m.lv.SetStatus(m.status)
	case key.Matches(km, keys.Reload):
		return m, m.load()
	case key.Matches(km, keys.Back):
		return m, func() tea.Msg { return backMsg{} }
	}
	return m, nil
}

func (m todosModel) updateSearch(km tea.KeyMsg) (todosModel, tea.Cmd) {
	switch km.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(km)
	m.lv.SetSearch(m.search.Value())
	return m, cmd
}

func (m todosModel) updateConfirm(msg tea.Msg) (todosModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEsc {
		m.confirm = nil
		return m, nil
	}

	f, cmd := m.confirm.Update(msg)
	if ff, ok := f.(*huh.Form); ok {
		m.confirm = ff
	}
	switch m.confirm.State {
	case huh.StateCompleted:
		yes := *m.confirmDelete
		m.confirm = nil
		if yes {
			return m, m.remove(m.deleting)
		}
		return m, nil
	case huh.StateAborted:
		m.confirm = nil
		return m, nil
	}
	return m, cmd
}

func (m todosModel) toggle(todo service.Todo) tea.Cmd {
	v := m.lv
	return func() tea.Msg {
		if _, err := v.Toggle(v.Context(), todo, todo.IsActive); err != nil {
			return statusMsg{text: "Update failed: " + err.Error(), isError: true}
		}
		return nil
	}
}

func (m todosModel) remove(todo service.Todo) tea.Cmd {
	v := m.lv
	return func() tea.Msg {
		if err := v.Delete(v.Context(), todo); err != nil {
			return statusMsg{text: "Delete failed: " + err.Error(), isError: true}
		}
		return statusMsg{text: fmt.Sprintf("Deleted %q", todo.Title)}
	}
}

// save hands the closed dialog's result to the view: an add for create
// dialogs, a merge into target for edit dialogs.
func (m todosModel) save(dlg *dialog.FormDialog, target service.Todo) tea.Cmd {
	v := m.lv
	edit := dlg.Form.IsEdit()
	return func() tea.Msg {
		ctx := v.Context()
		res, err := dlg.Wait(ctx)
		if err != nil {
			return nil
		}
		if edit {
			_, err = v.Edit(ctx, target, res)
		} else {
			_, err = v.Add(ctx, res)
		}
		if err != nil {
			return statusMsg{text: "Save failed: " + err.Error(), isError: true}
		}
		if res.Cancelled {
			return nil
		}
		return statusMsg{text: "Saved"}
	}
}

func (m todosModel) view(width int) string {
	if m.dialog != nil {
		return m.dialog.view(width)
	}

	w := max(width-4, 20)
	all := m.lv.Todos()
	visible := m.lv.Filtered()

	title := titleStyle.Render(m.list.Title) +
		mutedStyle.Render(fmt.Sprintf("  %d of %d", len(visible), len(all)))
	rows := []string{title, "", m.filterBar(), ""}

	if m.confirm != nil {
		rows = append(rows, m.confirm.View())
		return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	if len(visible) == 0 {
		msg := "No todos yet. Press n to add one."
		if len(all) > 0 {
			msg = "Nothing matches the filter."
		}
		rows = append(rows, mutedStyle.Render(msg))
	}

	now := m.now()
	cursor := clamp(m.cursor, len(visible))
	for i, t := range visible {
		rows = append(rows, m.renderTodo(t, i == cursor, now))
	}

	rows = append(rows, "", mutedStyle.Render("  space: done  n: new  e: edit  d: delete  /: search  s: status  esc: lists"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m todosModel) filterBar() string {
	search := m.search.View()
	if !m.searching && m.search.Value() == "" {
		search = mutedStyle.Render("/ search")
	}

	var chips []string
	for _, st := range filter.Statuses {
		label := textcase.CamelToTitle(string(st))
		if st == m.status {
			chips = append(chips, activeChipStyle.Render(label))
		} else {
			chips = append(chips, inactiveChipStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, search, "   ", lipgloss.JoinHorizontal(lipgloss.Bottom, chips...))
}

func (m todosModel) renderTodo(t service.Todo, selected bool, now time.Time) string {
	prefix := "  "
	style := normalItemStyle
	if selected {
		prefix = "> "
		style = selectedItemStyle
	}
	box := "[ ]"
	if t.Completed() {
		box = successStyle.Render("[x]")
		if !selected {
			style = completedItemStyle
		}
	}

	line := prefix + box + " " + style.Render(t.Title)
	if !t.DeadlineDate.IsZero() {
		due := "due " + t.DeadlineDate.In(m.loc).Format("2006-01-02 15:04")
		if t.IsActive && overdue(t.DeadlineDate, now) {
			line += "  " + errorStyle.Render(due)
		} else {
			line += "  " + mutedStyle.Render(due)
		}
	}
	if t.Text != "" {
		line += "\n      " + mutedStyle.Render(textcase.SentenceCase(t.Text))
	}
	return line
}
