// Package restapi implements the service.Service interface over the to-do REST API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/oauth2"

	"gtodo/internal/auth"
	"gtodo/internal/config"
	"gtodo/internal/service"
	"gtodo/internal/session"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 4 << 10
)

// Client implements service.Service against the REST API.
type Client struct {
	base *url.URL
	http *http.Client
	log  logr.Logger
}

// New creates a client for cfg.APIURL. Requests carry the session's bearer
// token; with oauth_client.json present the token is refreshed when it expires.
func New(ctx context.Context, cfg *config.Config, sess *session.Manager) (*Client, error) {
	var oauthConfig *oauth2.Config
	if cfg.HasOAuthClient() {
		var err error
		oauthConfig, err = auth.LoadConfig(cfg.OAuthClientPath())
		if err != nil {
			return nil, err
		}
	}

	tokenSource, err := sess.TokenSource(ctx, oauthConfig)
	if err != nil {
		return nil, err
	}

	c, err := NewWithHTTPClient(cfg.APIURL, oauth2.NewClient(ctx, tokenSource))
	if err != nil {
		return nil, err
	}
	c.log = cfg.Log.WithName("restapi")
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url: %q", baseURL)
	}
	return &Client{base: u, http: httpClient, log: logr.Discard()}, nil
}

// ListTodoLists returns the lists owned by userID.
func (c *Client) ListTodoLists(ctx context.Context, userID string) ([]service.TodoList, error) {
	var lists []service.TodoList
	q := url.Values{"userId": {userID}}
	if err := c.do(ctx, http.MethodGet, "/todo-list", q, nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// CreateTodoList creates a list.
func (c *Client) CreateTodoList(ctx context.Context, list service.TodoList) (service.TodoList, error) {
	var created service.TodoList
	if err := c.do(ctx, http.MethodPost, "/todo-list", nil, list, &created); err != nil {
		return service.TodoList{}, err
	}
	return created, nil
}

// ListTodos returns the todos of a list.
func (c *Client) ListTodos(ctx context.Context, listID string) ([]service.Todo, error) {
	var todos []service.Todo
	q := url.Values{"listId": {listID}}
	if err := c.do(ctx, http.MethodGet, "/todos", q, nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// CreateTodo creates a todo.
func (c *Client) CreateTodo(ctx context.Context, todo service.Todo) (service.Todo, error) {
	var created service.Todo
	if err := c.do(ctx, http.MethodPost, "/todos", nil, todo, &created); err != nil {
		return service.Todo{}, err
	}
	return created, nil
}

// UpdateTodo replaces a todo by ID.
func (c *Client) UpdateTodo(ctx context.Context, todo service.Todo) (service.Todo, error) {
	if todo.ID == "" {
		return service.Todo{}, errors.New("update todo: missing id")
	}
	var updated service.Todo
	if err := c.do(ctx, http.MethodPut, "/todos/"+url.PathEscape(todo.ID), nil, todo, &updated); err != nil {
		return service.Todo{}, err
	}
	return updated, nil
}

// DeleteTodo deletes a todo by ID.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = query.Encode()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.V(1).Info("request", "method", method, "url", u.String())
	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(resp.StatusCode, msg)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return wrapError(ctx, fmt.Errorf("decode %s %s: %w", method, path, err))
	}
	return nil
}

// statusError maps a non-2xx response to the service errors.
func statusError(code int, body []byte) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return service.ErrUnauthorized
	case http.StatusNotFound:
		return service.ErrNotFound
	}

	msg := strings.TrimSpace(string(body))
	var eb struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
		msg = eb.Error
	}
	return &service.APIError{StatusCode: code, Message: msg}
}

// wrapError converts transport errors to user-friendly messages.
func wrapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return service.ErrTimeout
	}

	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return fmt.Errorf("%w: %v", service.ErrUnauthorized, rerr)
	}

	return err
}
