package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// ErrInvalidToken is returned when a bearer token is missing or rejected.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the caller a request acts for. An empty Subject means
// authentication is disabled and no ownership checks apply.
type Identity struct {
	Subject string
	Email   string
}

// Authenticator turns a bearer token into an Identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Identity, error)
}

// NoAuth accepts every request as the anonymous identity.
type NoAuth struct{}

func (NoAuth) Authenticate(ctx context.Context, token string) (Identity, error) {
	return Identity{}, nil
}

// GoogleAuthenticator verifies access tokens with Google's tokeninfo endpoint
// and caches accepted tokens until they expire.
type GoogleAuthenticator struct {
	svc *oauth2api.Service
	now func() time.Time

	mu    sync.Mutex
	cache map[string]cachedIdentity
}

type cachedIdentity struct {
	id      Identity
	expires time.Time
}

// NewGoogleAuthenticator creates an authenticator. opts are passed to the
// oauth2 API client, e.g. to point it at a test endpoint.
func NewGoogleAuthenticator(ctx context.Context, opts ...option.ClientOption) (*GoogleAuthenticator, error) {
	opts = append([]option.ClientOption{option.WithoutAuthentication()}, opts...)
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create tokeninfo service: %w", err)
	}
	return &GoogleAuthenticator{
		svc:   svc,
		now:   time.Now,
		cache: make(map[string]cachedIdentity),
	}, nil
}

func (a *GoogleAuthenticator) Authenticate(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrInvalidToken
	}

	a.mu.Lock()
	if c, ok := a.cache[token]; ok {
		if a.now().Before(c.expires) {
			a.mu.Unlock()
			return c.id, nil
		}
		delete(a.cache, token)
	}
	a.mu.Unlock()

	info, err := a.svc.Tokeninfo().AccessToken(token).Context(ctx).Do()
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if info.UserId == "" || info.ExpiresIn <= 0 {
		return Identity{}, ErrInvalidToken
	}

	id := Identity{Subject: info.UserId, Email: info.Email}
	now := a.now()
	a.mu.Lock()
	a.prune(now)
	a.cache[token] = cachedIdentity{id: id, expires: now.Add(time.Duration(info.ExpiresIn) * time.Second)}
	a.mu.Unlock()
	return id, nil
}

// prune drops expired entries. Must be called with mu held.
func (a *GoogleAuthenticator) prune(now time.Time) {
	for token, c := range a.cache {
		if !now.Before(c.expires) {
			delete(a.cache, token)
		}
	}
}

type identityKey struct{}

func identityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func (s *Server) authenticated(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := s.cfg.Auth.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			s.log.V(1).Info("rejected request", "path", r.URL.Path, "err", err.Error())
			writeError(w, http.StatusUnauthorized, ErrInvalidToken.Error())
			return
		}
		h(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, id)))
	})
}

// owns reports whether id may access resources of userID.
func (id Identity) owns(userID string) bool {
	return id.Subject == "" || id.Subject == userID
}
