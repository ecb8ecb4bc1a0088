package filter_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"gtodo/internal/filter"
	"gtodo/internal/service"
)

func sampleTodos() []service.Todo {
	return []service.Todo{
		{ID: "1", Title: "Buy milk", IsActive: true},
		{ID: "2", Title: "Pay bills", IsActive: false},
		{ID: "3", Title: "Buy BREAD", IsActive: false},
		{ID: "4", Title: "Call mom", IsActive: true},
	}
}

func titles(todos []service.Todo) []string {
	out := make([]string, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.Title)
	}
	return out
}

func TestApply_Scenario(t *testing.T) {
	items := []service.Todo{
		{Title: "Buy milk", IsActive: true},
		{Title: "Pay bills", IsActive: false},
	}

	tests := []struct {
		name   string
		search string
		status filter.Status
		want   []string
	}{
		{"active no search", "", filter.StatusActive, []string{"Buy milk"}},
		{"all with search", "bills", filter.StatusAll, []string{"Pay bills"}},
		{"active with search", "bills", filter.StatusActive, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(filter.Apply(items, tt.search, tt.status))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestApply_EmptySearchMatchesStatusSubset(t *testing.T) {
	items := sampleTodos()
	for _, status := range filter.Statuses {
		got := filter.Apply(items, "", status)
		var want []service.Todo
		for _, it := range items {
			if status == filter.StatusAll ||
				(status == filter.StatusActive && it.IsActive) ||
				(status == filter.StatusCompleted && !it.IsActive) {
				want = append(want, it)
			}
		}
		if !reflect.DeepEqual(titles(got), titles(want)) {
			t.Errorf("status %s: expected %v, got %v", status, titles(want), titles(got))
		}
	}
}

func TestApply_SearchIsSubsetAndCaseInsensitive(t *testing.T) {
	items := sampleTodos()
	for _, status := range filter.Statuses {
		for _, search := range []string{"buy", "BUY", "  bread ", "zzz", "l"} {
			got := filter.Apply(items, search, status)
			base := filter.Apply(items, "", status)
			for _, g := range got {
				found := false
				for _, b := range base {
					if b.ID == g.ID {
						found = true
					}
				}
				if !found {
					t.Errorf("status %s search %q: %q not in status subset", status, search, g.Title)
				}
				q := strings.ToLower(strings.TrimSpace(search))
				if !strings.Contains(strings.ToLower(g.Title), q) {
					t.Errorf("status %s search %q: %q does not contain query", status, search, g.Title)
				}
			}
		}
	}
}

func TestApply_Idempotent(t *testing.T) {
	items := sampleTodos()
	for _, status := range filter.Statuses {
		once := filter.Apply(items, "buy", status)
		twice := filter.Apply(once, "buy", status)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("status %s: expected idempotent result, got %v then %v", status, titles(once), titles(twice))
		}
	}
}

func TestApply_EmptyInput(t *testing.T) {
	got := filter.Apply(nil, "anything", filter.StatusActive)
	if got == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestApply_WhitespaceSearchIsEmpty(t *testing.T) {
	items := sampleTodos()
	got := filter.Apply(items, "   ", filter.StatusAll)
	if len(got) != len(items) {
		t.Errorf("expected %d items, got %d", len(items), len(got))
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	items := sampleTodos()
	before := titles(items)
	_ = filter.Apply(items, "call", filter.StatusAll)
	if !reflect.DeepEqual(before, titles(items)) {
		t.Errorf("input mutated: %v", titles(items))
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    filter.Status
		wantErr bool
	}{
		{"", filter.StatusAll, false},
		{"all", filter.StatusAll, false},
		{"Active", filter.StatusActive, false},
		{" completed ", filter.StatusCompleted, false},
		{"done", "", true},
	}
	for _, tt := range tests {
		got, err := filter.ParseStatus(tt.in)
		if tt.wantErr {
			if !errors.Is(err, filter.ErrInvalidStatus) {
				t.Errorf("%q: expected ErrInvalidStatus, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestStatusNext(t *testing.T) {
	if got := filter.StatusAll.Next(); got != filter.StatusActive {
		t.Errorf("expected active, got %s", got)
	}
	if got := filter.StatusCompleted.Next(); got != filter.StatusAll {
		t.Errorf("expected all, got %s", got)
	}
}
