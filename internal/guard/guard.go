// Package guard decides whether a view may be entered given the session state.
package guard

import "context"

// Route names a top-level view.
type Route string

const (
	RouteLogin     Route = "login"
	RouteDashboard Route = "dashboard"
)

// Decision is the outcome of a guard check. When Allow is false, Redirect
// names the view to show instead.
type Decision struct {
	Allow    bool
	Redirect Route
}

// TokenState is the part of the session the guard depends on.
type TokenState interface {
	CurrentToken() (string, bool)
	TokenReceived() <-chan struct{}
}

// Guard gates routes on token presence.
type Guard struct {
	session TokenState
}

// New returns a Guard over session.
func New(session TokenState) *Guard {
	return &Guard{session: session}
}

// CanActivate checks route. With a token, the login route redirects to the
// dashboard and everything else is allowed. Without one, the login route is
// allowed and other routes wait for a token until ctx is done, then redirect
// to login.
func (g *Guard) CanActivate(ctx context.Context, route Route) Decision {
	if _, ok := g.session.CurrentToken(); ok {
		if route == RouteLogin {
			return Decision{Redirect: RouteDashboard}
		}
		return Decision{Allow: true}
	}

	if route == RouteLogin {
		return Decision{Allow: true}
	}

	received := g.session.TokenReceived()
	select {
	case <-received:
		return Decision{Allow: true}
	default:
	}

	select {
	case <-received:
		return Decision{Allow: true}
	case <-ctx.Done():
		return Decision{Redirect: RouteLogin}
	}
}
