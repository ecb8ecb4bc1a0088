// Package server exposes the to-do REST API backed by the SQLite store.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"gtodo/internal/service"
)

const shutdownTimeout = 5 * time.Second

// Repository is the persistence the API serves from. *store.Store implements it.
type Repository interface {
	ListTodoLists(ctx context.Context, userID string) ([]service.TodoList, error)
	GetTodoList(ctx context.Context, id string) (service.TodoList, error)
	CreateTodoList(ctx context.Context, l service.TodoList) (service.TodoList, error)
	ListTodos(ctx context.Context, listID string) ([]service.Todo, error)
	GetTodo(ctx context.Context, id string) (service.Todo, error)
	CreateTodo(ctx context.Context, t service.Todo) (service.Todo, error)
	UpdateTodo(ctx context.Context, t service.Todo) (service.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
}

// Config configures a Server.
type Config struct {
	Addr string
	Repo Repository
	// Auth verifies bearer tokens. Nil disables authentication.
	Auth Authenticator
	Log  logr.Logger
}

// Server serves /todo-list and /todos.
type Server struct {
	cfg Config
	log logr.Logger
}

// NewServer validates cfg and returns a Server.
func NewServer(cfg Config) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		return nil, errors.New("server: addr is empty")
	}
	if cfg.Repo == nil {
		return nil, errors.New("server: repository is nil")
	}
	if cfg.Auth == nil {
		cfg.Auth = NoAuth{}
	}
	return &Server{cfg: cfg, log: cfg.Log.WithName("server")}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

// Handler returns the API routes wrapped in request logging and authentication.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /todo-list", s.authenticated(s.handleListTodoLists))
	mux.Handle("POST /todo-list", s.authenticated(s.handleCreateTodoList))
	mux.Handle("GET /todos", s.authenticated(s.handleListTodos))
	mux.Handle("POST /todos", s.authenticated(s.handleCreateTodo))
	mux.Handle("PUT /todos/{id}", s.authenticated(s.handleUpdateTodo))
	mux.Handle("DELETE /todos/{id}", s.authenticated(s.handleDeleteTodo))
	return s.logRequests(mux)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.V(1).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}
