package restapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/oauth2"

	"gtodo/internal/config"
	"gtodo/internal/server"
	"gtodo/internal/service"
	"gtodo/internal/session"
	"gtodo/internal/store"
)

type staticAuth map[string]server.Identity

func (a staticAuth) Authenticate(ctx context.Context, token string) (server.Identity, error) {
	id, ok := a[token]
	if !ok {
		return server.Identity{}, server.ErrInvalidToken
	}
	return id, nil
}

func newAPI(t *testing.T) string {
	t.Helper()
	st, err := store.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	srv, err := server.NewServer(server.Config{
		Addr: ":0",
		Repo: st,
		Auth: staticAuth{"alice-token": {Subject: "alice"}},
		Log:  logr.Discard(),
	})
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func newClient(t *testing.T, baseURL, token string) *Client {
	t.Helper()
	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	c, err := NewWithHTTPClient(baseURL, httpClient)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewWithHTTPClient_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "localhost", "://nope"} {
		if _, err := NewWithHTTPClient(u, http.DefaultClient); err == nil {
			t.Errorf("%q: expected error", u)
		}
	}
}

func TestClient_RoundTrip(t *testing.T) {
	c := newClient(t, newAPI(t), "alice-token")
	ctx := context.Background()

	list, err := c.CreateTodoList(ctx, service.TodoList{Title: "Work", UserID: "alice"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	lists, err := c.ListTodoLists(ctx, "alice")
	if err != nil || len(lists) != 1 || lists[0].ID != list.ID {
		t.Fatalf("unexpected lists %+v %v", lists, err)
	}

	deadline := time.Date(2026, 10, 20, 14, 30, 0, 0, time.UTC)
	todo, err := c.CreateTodo(ctx, service.Todo{ListID: list.ID, Title: "Report", Text: "numbers", IsActive: true, DeadlineDate: deadline})
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}

	todo.IsActive = false
	if _, err := c.UpdateTodo(ctx, todo); err != nil {
		t.Fatalf("update: %v", err)
	}

	todos, err := c.ListTodos(ctx, list.ID)
	if err != nil || len(todos) != 1 || todos[0].IsActive {
		t.Fatalf("unexpected todos %+v %v", todos, err)
	}

	if err := c.DeleteTodo(ctx, todo.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := c.DeleteTodo(ctx, todo.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_Unauthorized(t *testing.T) {
	c := newClient(t, newAPI(t), "stale-token")
	_, err := c.ListTodoLists(context.Background(), "alice")
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"title is required"}`))
	}))
	defer ts.Close()

	c := newClient(t, ts.URL, "t")
	_, err := c.CreateTodo(context.Background(), service.Todo{})
	var apiErr *service.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "title is required" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestClient_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	c := newClient(t, ts.URL, "t")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.ListTodos(ctx, "l1"); !errors.Is(err, service.ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestClient_RequestShape(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotMethod string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotQuery = r.Method, r.URL.Path, r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c := newClient(t, ts.URL+"/api/", "abc")
	if _, err := c.ListTodoLists(context.Background(), "u 1"); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodGet || gotPath != "/api/todo-list" || gotQuery != "userId=u+1" {
		t.Errorf("unexpected request %s %s?%s", gotMethod, gotPath, gotQuery)
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestNew_RequiresSession(t *testing.T) {
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	sess, err := session.Open(cfg.SessionPath(), logr.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(context.Background(), cfg, sess); !errors.Is(err, session.ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}

	if err := sess.Store(&oauth2.Token{AccessToken: "abc"}, session.Profile{Subject: "alice"}); err != nil {
		t.Fatal(err)
	}
	if _, err := New(context.Background(), cfg, sess); err != nil {
		t.Errorf("expected client, got %v", err)
	}
}
