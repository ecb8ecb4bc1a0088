package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"gtodo/internal/service"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createList(t *testing.T, s *Store, title, userID string) service.TodoList {
	t.Helper()
	l, err := s.CreateTodoList(context.Background(), service.TodoList{Title: title, UserID: userID})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	return l
}

func TestNewMemory(t *testing.T) {
	s := newTestStore(t)
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != currentVersion {
		t.Fatalf("expected user_version %d, got %d", currentVersion, version)
	}
}

func TestNewWithPath_Reopen(t *testing.T) {
	path := t.TempDir() + "/sub/gtodo.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	createList(t, s, "Work", "u1")
	s.Close()

	s, err = New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	lists, err := s.ListTodoLists(context.Background(), "u1")
	if err != nil || len(lists) != 1 {
		t.Fatalf("expected 1 list after reopen, got %v %v", lists, err)
	}
}

func TestTodoLists_ScopedByUser(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	work := createList(t, s, "Work", "u1")
	createList(t, s, "Home", "u2")
	createList(t, s, "Errands", "u1")

	if work.ID == "" || work.CreatedAt == nil || !work.CreatedAt.Equal(s.now()) {
		t.Errorf("expected id and createdAt to be assigned, got %+v", work)
	}

	lists, err := s.ListTodoLists(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(lists) != 2 || lists[0].Title != "Work" || lists[1].Title != "Errands" {
		t.Errorf("unexpected lists %+v", lists)
	}

	none, err := s.ListTodoLists(ctx, "nobody")
	if err != nil || none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v %v", none, err)
	}
}

func TestTodos_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	list := createList(t, s, "Work", "u1")
	deadline := time.Date(2026, 10, 20, 14, 30, 0, 0, time.UTC)

	created, err := s.CreateTodo(ctx, service.Todo{ListID: list.ID, Title: "Report", Text: "quarterly numbers", IsActive: true, DeadlineDate: deadline})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || !created.IsActive || !created.DeadlineDate.Equal(deadline) {
		t.Errorf("unexpected todo %+v", created)
	}

	created.IsActive = false
	created.Title = "Report v2"
	updated, err := s.UpdateTodo(ctx, created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.IsActive || updated.Title != "Report v2" || updated.ListID != list.ID {
		t.Errorf("unexpected update %+v", updated)
	}

	todos, err := s.ListTodos(ctx, list.ID)
	if err != nil || len(todos) != 1 {
		t.Fatalf("expected 1 todo, got %v %v", todos, err)
	}

	if err := s.DeleteTodo(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteTodo(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestTodos_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateTodo(ctx, service.Todo{ListID: "missing", Title: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing list, got %v", err)
	}
	if _, err := s.UpdateTodo(ctx, service.Todo{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing todo, got %v", err)
	}
	if _, err := s.GetTodo(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListTodos_Order(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	list := createList(t, s, "Work", "u1")
	other := createList(t, s, "Home", "u1")

	for _, title := range []string{"one", "two", "three"} {
		if _, err := s.CreateTodo(ctx, service.Todo{ListID: list.ID, Title: title, IsActive: true}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.CreateTodo(ctx, service.Todo{ListID: other.ID, Title: "elsewhere"}); err != nil {
		t.Fatal(err)
	}

	todos, err := s.ListTodos(ctx, list.ID)
	if err != nil {
		t.Fatal(err)
	}
	var titles []string
	for _, td := range todos {
		titles = append(titles, td.Title)
	}
	if len(titles) != 3 || titles[0] != "one" || titles[2] != "three" {
		t.Errorf("expected insertion order, got %v", titles)
	}
}
