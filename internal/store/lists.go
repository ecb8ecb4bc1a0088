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

// ListTodoLists returns the lists owned by userID in creation order.
// An empty userID returns every list.
func (s *Store) ListTodoLists(ctx context.Context, userID string) ([]service.TodoList, error) {
	query := `SELECT id, title, user_id, created_at FROM todo_lists`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list todo lists: %w", err)
	}
	defer rows.Close()

	lists := []service.TodoList{}
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// GetTodoList returns one list by ID.
func (s *Store) GetTodoList(ctx context.Context, id string) (service.TodoList, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, title, user_id, created_at FROM todo_lists WHERE id = ?`, id)
	l, err := scanList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return service.TodoList{}, fmt.Errorf("todo list %s: %w", id, ErrNotFound)
	}
	return l, err
}

// CreateTodoList stores a new list. The ID and creation time are assigned here.
func (s *Store) CreateTodoList(ctx context.Context, l service.TodoList) (service.TodoList, error) {
	created := s.now().UTC()
	l.ID = uuid.NewString()
	l.CreatedAt = &created

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO todo_lists (id, title, user_id, created_at, seq)
		 VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM todo_lists))`,
		l.ID, l.Title, l.UserID, created.Format(timeLayout),
	)
	if err != nil {
		return service.TodoList{}, fmt.Errorf("insert todo list: %w", err)
	}
	return l, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanList(sc scanner) (service.TodoList, error) {
	var l service.TodoList
	var createdAt string
	if err := sc.Scan(&l.ID, &l.Title, &l.UserID, &createdAt); err != nil {
		return service.TodoList{}, err
	}
	if t, err := time.Parse(timeLayout, createdAt); err == nil {
		l.CreatedAt = &t
	}
	return l, nil
}
