package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"gtodo/internal/service"
	"gtodo/internal/session"
	"gtodo/internal/testutil"
)

func init() {
	color.NoColor = true
}

// trimmed splits s into lines without trailing padding.
func trimmed(s string) []string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return lines
}

func TestNumber(t *testing.T) {
	all := []service.Todo{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	got := Number(all, []service.Todo{all[2], all[0]})
	if len(got) != 2 || got[0].Num != 3 || got[1].Num != 1 {
		t.Errorf("unexpected numbering %+v", got)
	}
}

func TestFormatTodos(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	items := []Numbered{
		{Num: 1, Todo: service.Todo{Title: "Buy milk", Text: "two litres. whole", IsActive: true, DeadlineDate: time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)}},
		{Num: 12, Todo: service.Todo{Title: "Pay rent", Text: "", IsActive: false}},
	}

	var buf bytes.Buffer
	FormatTodos(&buf, items, time.UTC, now)

	want := []string{
		" #  DONE  TITLE     DEADLINE          TEXT",
		" 1  [ ]   Buy milk  2026-10-20 09:00  Two litres. Whole",
		"12  [x]   Pay rent  -",
	}
	got := trimmed(buf.String())
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d:\nwant %q\ngot  %q", i, want[i], got[i])
		}
	}
}

func TestFormatLists(t *testing.T) {
	var buf bytes.Buffer
	FormatLists(&buf, []service.TodoList{{Title: "Work"}, {Title: "  "}, {Title: "Weekend\ntrip"}})
	testutil.GoldenString(t, "lists", buf.String())
}

func TestFormatProfile(t *testing.T) {
	var buf bytes.Buffer
	FormatProfile(&buf, session.Profile{Subject: "42", Name: "Ada Lovelace", Email: "ada@example.com"})
	want := []string{
		"Name     Ada Lovelace",
		"Email    ada@example.com",
		"Subject  42",
	}
	got := trimmed(buf.String())
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestFormatFieldErrors(t *testing.T) {
	var buf bytes.Buffer
	FormatFieldErrors(&buf, map[string]error{
		"title": errors.New("Title is too short"),
		"text":  errors.New("Text is required"),
	})
	if buf.String() != "error: Text is required\nerror: Title is too short\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}
