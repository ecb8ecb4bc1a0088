// Package service defines the backend-agnostic interface for to-do operations.
package service

import "time"

// TodoList is a named collection of to-do items owned by one user.
type TodoList struct {
	ID        string     `json:"id,omitempty"`
	Title     string     `json:"title"`
	UserID    string     `json:"userId"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Todo is a single task. IsActive is true until the task is completed.
type Todo struct {
	ID           string    `json:"id,omitempty"`
	ListID       string    `json:"listId"`
	Title        string    `json:"title"`
	Text         string    `json:"text"`
	IsActive     bool      `json:"isActive"`
	DeadlineDate time.Time `json:"deadlineDate"`
}

// Completed reports whether the todo has been checked off.
func (t Todo) Completed() bool {
	return !t.IsActive
}
