// Package service defines the backend-agnostic interface for to-do operations.
package service

import "context"

// Service defines the remote CRUD surface for lists and todos.
// Commands and views never import the HTTP backend directly.
type Service interface {
	// ListTodoLists returns the lists owned by userID in API order.
	ListTodoLists(ctx context.Context, userID string) ([]TodoList, error)

	// CreateTodoList creates a list from a partial value and returns the stored list.
	CreateTodoList(ctx context.Context, list TodoList) (TodoList, error)

	// ListTodos returns the todos of a list in API order.
	ListTodos(ctx context.Context, listID string) ([]Todo, error)

	// CreateTodo creates a todo from a partial value and returns the stored todo.
	CreateTodo(ctx context.Context, todo Todo) (Todo, error)

	// UpdateTodo replaces a todo by ID and returns the stored todo.
	UpdateTodo(ctx context.Context, todo Todo) (Todo, error)

	// DeleteTodo deletes a todo by ID.
	DeleteTodo(ctx context.Context, id string) error
}
