package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gtodo/internal/service"
)

const todoColumns = `id, list_id, title, text, is_active, deadline_date`

// ListTodos returns the todos of listID in creation order. An empty listID
// returns every todo.
func (s *Store) ListTodos(ctx context.Context, listID string) ([]service.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos`
	var args []any
	if listID != "" {
		query += ` WHERE list_id = ?`
		args = append(args, listID)
	}
	query += ` ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := []service.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// GetTodo returns one todo by ID.
func (s *Store) GetTodo(ctx context.Context, id string) (service.Todo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return service.Todo{}, fmt.Errorf("todo %s: %w", id, ErrNotFound)
	}
	return t, err
}

// CreateTodo stores a new todo in an existing list and assigns its ID.
func (s *Store) CreateTodo(ctx context.Context, t service.Todo) (service.Todo, error) {
	if _, err := s.GetTodoList(ctx, t.ListID); err != nil {
		return service.Todo{}, err
	}
	t.ID = uuid.NewString()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (`+todoColumns+`, seq)
		 VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM todos))`,
		t.ID, t.ListID, t.Title, t.Text, boolToInt(t.IsActive), t.DeadlineDate.UTC().Format(timeLayout),
	)
	if err != nil {
		return service.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	return s.GetTodo(ctx, t.ID)
}

// UpdateTodo replaces the stored fields of t.ID. The list of a todo never changes.
func (s *Store) UpdateTodo(ctx context.Context, t service.Todo) (service.Todo, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE todos SET title = ?, text = ?, is_active = ?, deadline_date = ? WHERE id = ?`,
		t.Title, t.Text, boolToInt(t.IsActive), t.DeadlineDate.UTC().Format(timeLayout), t.ID,
	)
	if err != nil {
		return service.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return service.Todo{}, fmt.Errorf("todo %s: %w", t.ID, ErrNotFound)
	}
	return s.GetTodo(ctx, t.ID)
}

// DeleteTodo removes a todo by ID.
func (s *Store) DeleteTodo(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("todo %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanTodo(sc scanner) (service.Todo, error) {
	var t service.Todo
	var active int
	var deadline string
	if err := sc.Scan(&t.ID, &t.ListID, &t.Title, &t.Text, &active, &deadline); err != nil {
		return service.Todo{}, err
	}
	t.IsActive = active == 1
	t.DeadlineDate, _ = time.Parse(timeLayout, deadline)
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
