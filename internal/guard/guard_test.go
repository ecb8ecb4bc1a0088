package guard

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeSession struct {
	mu    sync.Mutex
	token string
	ch    chan struct{}
}

func newFakeSession(token string) *fakeSession {
	s := &fakeSession{token: token, ch: make(chan struct{})}
	if token != "" {
		close(s.ch)
	}
	return s
}

func (s *fakeSession) CurrentToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *fakeSession) TokenReceived() <-chan struct{} { return s.ch }

func (s *fakeSession) login(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	close(s.ch)
}

func TestCanActivate(t *testing.T) {
	tests := []struct {
		name  string
		token string
		route Route
		want  Decision
	}{
		{"token dashboard", "abc", RouteDashboard, Decision{Allow: true}},
		{"token login", "abc", RouteLogin, Decision{Redirect: RouteDashboard}},
		{"no token login", "", RouteLogin, Decision{Allow: true}},
		{"no token dashboard", "", RouteDashboard, Decision{Redirect: RouteLogin}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()
			got := New(newFakeSession(tt.token)).CanActivate(ctx, tt.route)
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestCanActivate_WaitsForToken(t *testing.T) {
	s := newFakeSession("")
	go func() {
		time.Sleep(10 * time.Millisecond)
		s.login("abc")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if got := New(s).CanActivate(ctx, RouteDashboard); !got.Allow {
		t.Errorf("expected allow after token arrives, got %+v", got)
	}
}

func TestCanActivate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := New(newFakeSession("")).CanActivate(ctx, RouteDashboard)
	if got.Allow || got.Redirect != RouteLogin {
		t.Errorf("expected redirect to login, got %+v", got)
	}
}
