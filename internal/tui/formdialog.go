package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gtodo/internal/dialog"
	"gtodo/internal/form"
)

// formDialogModel renders a dialog.FormDialog as a stack of text inputs,
// one per form input. Every keystroke is pushed into the form so its
// validation state is always current.
type formDialogModel struct {
	dlg     *dialog.FormDialog
	inputs  []form.Input
	fields  []textinput.Model
	focus   int
	touched map[string]bool
	note    string
}

func newFormDialog(dlg *dialog.FormDialog) *formDialogModel {
	d := &formDialogModel{
		dlg:     dlg,
		inputs:  dlg.Form.Inputs(),
		touched: make(map[string]bool),
	}
	for _, in := range d.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = in.Placeholder
		ti.SetValue(dlg.Form.Raw(in.Key))
		d.fields = append(d.fields, ti)
	}
	return d
}

func (d *formDialogModel) init() tea.Cmd {
	return d.focusOn(0)
}

func (d *formDialogModel) focusOn(i int) tea.Cmd {
	if len(d.fields) == 0 {
		return nil
	}
	d.fields[d.focus].Blur()
	d.focus = (i + len(d.fields)) % len(d.fields)
	return d.fields[d.focus].Focus()
}

// update handles msg and reports whether the dialog closed.
func (d *formDialogModel) update(msg tea.Msg) (bool, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		if len(d.fields) == 0 {
			return false, nil
		}
		var cmd tea.Cmd
		d.fields[d.focus], cmd = d.fields[d.focus].Update(msg)
		return false, cmd
	}

	switch {
	case key.Matches(km, keys.Back):
		_ = d.dlg.Cancel()
		return true, nil
	case key.Matches(km, keys.Submit):
		return d.submit(), nil
	case key.Matches(km, keys.Enter):
		if d.focus < len(d.fields)-1 {
			return false, d.focusOn(d.focus + 1)
		}
		return d.submit(), nil
	case key.Matches(km, keys.NextField):
		return false, d.focusOn(d.focus + 1)
	case key.Matches(km, keys.PrevField):
		return false, d.focusOn(d.focus - 1)
	}

	if len(d.fields) == 0 {
		return false, nil
	}
	var cmd tea.Cmd
	d.fields[d.focus], cmd = d.fields[d.focus].Update(km)
	in := d.inputs[d.focus]
	_ = d.dlg.Form.Set(in.Key, d.fields[d.focus].Value())
	d.touched[in.Key] = true
	d.note = ""
	return false, cmd
}

func (d *formDialogModel) submit() bool {
	if !d.dlg.Form.CanConfirm() {
		for _, in := range d.inputs {
			d.touched[in.Key] = true
		}
		if d.dlg.Form.Valid() {
			d.note = "Nothing changed"
		} else {
			d.note = "Fix the fields marked above"
		}
		return false
	}
	if err := d.dlg.Confirm(); err != nil {
		d.note = err.Error()
		return false
	}
	return true
}

func (d *formDialogModel) view(width int) string {
	errs := d.dlg.Form.Errors()

	rows := []string{titleStyle.Render(d.dlg.Title), ""}
	for i, in := range d.inputs {
		label := in.Label
		if in.MaxLength > 0 {
			n := utf8.RuneCountInString(d.fields[i].Value())
			label += mutedStyle.Render(fmt.Sprintf("  %d/%d", n, in.MaxLength))
		}
		style := labelStyle
		if i == d.focus {
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(label), d.fields[i].View())
		if err := errs[in.Key]; err != nil && d.touched[in.Key] {
			rows = append(rows, errorStyle.Render("  "+err.Error()))
		}
		rows = append(rows, "")
	}

	if d.note != "" {
		rows = append(rows, warningStyle.Render(d.note), "")
	}

	save := mutedStyle.Render("[ Save ]")
	if d.dlg.Form.CanConfirm() {
		save = successStyle.Render("[ Save ]")
	}
	rows = append(rows, save+"  "+mutedStyle.Render("[ Cancel ]"))
	rows = append(rows, "", mutedStyle.Render("  tab: next field  ctrl+s: save  esc: cancel"))

	return activePanelStyle.Width(max(width-4, 20)).Render(strings.Join(rows, "\n"))
}
