// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"gtodo/internal/service"
	"gtodo/internal/session"
	"gtodo/internal/textcase"
)

// DeadlineLayout is how deadlines are printed.
const DeadlineLayout = "2006-01-02 15:04"

var (
	header  = color.New(color.Bold)
	faint   = color.New(color.Faint)
	done    = color.New(color.FgGreen)
	overdue = color.New(color.FgRed)
)

// Numbered is a todo with its 1-based position in the unfiltered list.
type Numbered struct {
	Num  int
	Todo service.Todo
}

// Number pairs each visible todo with its position in all.
func Number(all, visible []service.Todo) []Numbered {
	pos := make(map[string]int, len(all))
	for i, t := range all {
		pos[t.ID] = i + 1
	}
	out := make([]Numbered, 0, len(visible))
	for _, t := range visible {
		out = append(out, Numbered{Num: pos[t.ID], Todo: t})
	}
	return out
}

func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	return tbl
}

// FormatTodos prints todos as a table. now marks overdue deadlines.
func FormatTodos(w io.Writer, items []Numbered, loc *time.Location, now time.Time) {
	tbl := newTable()
	tbl.RightAlign(0)
	tbl.AddRow(header.Sprint("#"), header.Sprint("DONE"), header.Sprint("TITLE"), header.Sprint("DEADLINE"), header.Sprint("TEXT"))
	for _, it := range items {
		tbl.AddRow(it.Num, checkbox(it.Todo), normalizeTitle(it.Todo.Title), deadline(it.Todo, loc, now), textcase.SentenceCase(flatten(it.Todo.Text)))
	}
	fmt.Fprintln(w, tbl)
}

func checkbox(t service.Todo) string {
	if t.Completed() {
		return done.Sprint("[x]")
	}
	return "[ ]"
}

func deadline(t service.Todo, loc *time.Location, now time.Time) string {
	if t.DeadlineDate.IsZero() {
		return faint.Sprint("-")
	}
	s := t.DeadlineDate.In(loc).Format(DeadlineLayout)
	if t.IsActive && t.DeadlineDate.Before(now) {
		return overdue.Sprint(s)
	}
	return s
}

// FormatLists prints list titles, one per line.
func FormatLists(w io.Writer, lists []service.TodoList) {
	for _, l := range lists {
		fmt.Fprintln(w, normalizeTitle(l.Title))
	}
}

// FormatProfile prints the signed-in user.
func FormatProfile(w io.Writer, p session.Profile) {
	tbl := newTable()
	tbl.AddRow(header.Sprint("Name"), p.DisplayName())
	if p.Email != "" {
		tbl.AddRow(header.Sprint("Email"), p.Email)
	}
	tbl.AddRow(header.Sprint("Subject"), p.Subject)
	fmt.Fprintln(w, tbl)
}

// FormatFieldErrors prints validation errors sorted by input key.
func FormatFieldErrors(w io.Writer, errs map[string]error) {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "error: %s\n", errs[k])
	}
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = flatten(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
