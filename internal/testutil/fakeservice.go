// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"gtodo/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	lists  []service.TodoList
	todos  []service.Todo
	nextID int

	// Error injection for testing
	ListTodoListsErr  error
	CreateTodoListErr error
	ListTodosErr      error
	CreateTodoErr     error
	UpdateTodoErr     error
	DeleteTodoErr     error

	// Calls records the operations performed, e.g. "UpdateTodo t1".
	Calls []string
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{}
}

func (f *FakeService) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

func (f *FakeService) record(format string, args ...any) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

// AddList adds a list owned by userID and returns it.
func (f *FakeService) AddList(id, title, userID string) service.TodoList {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := service.TodoList{ID: id, Title: title, UserID: userID}
	f.lists = append(f.lists, l)
	return l
}

// AddTodo adds a todo to a list and returns it.
func (f *FakeService) AddTodo(listID, id, title string, active bool) service.Todo {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Todo{ID: id, ListID: listID, Title: title, Text: title, IsActive: active}
	f.todos = append(f.todos, t)
	return t
}

// Todo returns the stored todo with id.
func (f *FakeService) Todo(id string) (service.Todo, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.todos {
		if t.ID == id {
			return t, true
		}
	}
	return service.Todo{}, false
}

// ListTodoLists implements service.Service.
func (f *FakeService) ListTodoLists(ctx context.Context, userID string) ([]service.TodoList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTodoLists %s", userID)
	if f.ListTodoListsErr != nil {
		return nil, f.ListTodoListsErr
	}
	result := []service.TodoList{}
	for _, l := range f.lists {
		if l.UserID == userID {
			result = append(result, l)
		}
	}
	return result, nil
}

// CreateTodoList implements service.Service.
func (f *FakeService) CreateTodoList(ctx context.Context, list service.TodoList) (service.TodoList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTodoList %s", list.Title)
	if f.CreateTodoListErr != nil {
		return service.TodoList{}, f.CreateTodoListErr
	}
	list.ID = f.newID("l")
	f.lists = append(f.lists, list)
	return list, nil
}

// ListTodos implements service.Service.
func (f *FakeService) ListTodos(ctx context.Context, listID string) ([]service.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTodos %s", listID)
	if f.ListTodosErr != nil {
		return nil, f.ListTodosErr
	}
	result := []service.Todo{}
	for _, t := range f.todos {
		if t.ListID == listID {
			result = append(result, t)
		}
	}
	return result, nil
}

// CreateTodo implements service.Service.
func (f *FakeService) CreateTodo(ctx context.Context, todo service.Todo) (service.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTodo %s", todo.Title)
	if f.CreateTodoErr != nil {
		return service.Todo{}, f.CreateTodoErr
	}
	if !f.hasList(todo.ListID) {
		return service.Todo{}, service.ErrNotFound
	}
	todo.ID = f.newID("t")
	f.todos = append(f.todos, todo)
	return todo, nil
}

// UpdateTodo implements service.Service.
func (f *FakeService) UpdateTodo(ctx context.Context, todo service.Todo) (service.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateTodo %s", todo.ID)
	if f.UpdateTodoErr != nil {
		return service.Todo{}, f.UpdateTodoErr
	}
	for i, t := range f.todos {
		if t.ID == todo.ID {
			todo.ListID = t.ListID
			f.todos[i] = todo
			return todo, nil
		}
	}
	return service.Todo{}, service.ErrNotFound
}

// DeleteTodo implements service.Service.
func (f *FakeService) DeleteTodo(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTodo %s", id)
	if f.DeleteTodoErr != nil {
		return f.DeleteTodoErr
	}
	for i, t := range f.todos {
		if t.ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}

func (f *FakeService) hasList(id string) bool {
	for _, l := range f.lists {
		if l.ID == id {
			return true
		}
	}
	return false
}

// CallLog returns a copy of the recorded calls.
func (f *FakeService) CallLog() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.Calls))
	copy(out, f.Calls)
	return out
}
