// Package session persists the signed-in user's token and profile between runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/peterbourgon/diskv/v3"
	"golang.org/x/oauth2"
)

const (
	// TokenKey is the store key of the OAuth token.
	TokenKey = "token"

	// ProfileKey is the store key of the cached user profile.
	ProfileKey = "userInfo"

	// DefaultRevokeURL is Google's token revocation endpoint.
	DefaultRevokeURL = "https://oauth2.googleapis.com/revoke"

	revokeTimeout = 5 * time.Second
)

// ErrNotLoggedIn is returned when an operation needs a token and none is stored.
var ErrNotLoggedIn = errors.New("not logged in (run: gtodo login)")

// Manager holds the current session. Reads are served from memory; every
// change is written through to the on-disk store.
type Manager struct {
	// RevokeURL receives the best-effort revocation on logout. Empty skips it.
	RevokeURL string

	// HTTPClient is used for revocation. Nil uses http.DefaultClient.
	HTTPClient *http.Client

	store *diskv.Diskv
	log   logr.Logger

	mu       sync.Mutex
	token    *oauth2.Token
	profile  *Profile
	received chan struct{}
}

// Open loads the session stored under dir, creating the directory on first write.
func Open(dir string, log logr.Logger) (*Manager, error) {
	m := &Manager{
		RevokeURL: DefaultRevokeURL,
		store: diskv.New(diskv.Options{
			BasePath:     dir,
			CacheSizeMax: 64 * 1024,
			PathPerm:     0700,
			FilePerm:     0600,
		}),
		log:      log.WithName("session"),
		received: make(chan struct{}),
	}

	if m.store.Has(TokenKey) {
		data, err := m.store.Read(TokenKey)
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
		var tok oauth2.Token
		if err := json.Unmarshal(data, &tok); err != nil {
			return nil, fmt.Errorf("invalid stored token: %w", err)
		}
		if tok.AccessToken != "" {
			m.token = &tok
			close(m.received)
		}
	}

	if m.store.Has(ProfileKey) {
		data, err := m.store.Read(ProfileKey)
		if err != nil {
			return nil, fmt.Errorf("read profile: %w", err)
		}
		var p Profile
		if err := json.Unmarshal(data, &p); err != nil {
			m.log.Error(err, "discarding unreadable profile")
		} else {
			m.profile = &p
		}
	}

	return m, nil
}

// CurrentToken returns the access token, if any.
func (m *Manager) CurrentToken() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return "", false
	}
	return m.token.AccessToken, true
}

// Token returns a copy of the full OAuth token, if any.
func (m *Manager) Token() (*oauth2.Token, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return nil, false
	}
	tok := *m.token
	return &tok, true
}

// Profile returns the cached profile, if any.
func (m *Manager) Profile() (Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		return Profile{}, false
	}
	return *m.profile, true
}

// TokenReceived is closed once a token is present. Callers that subscribe
// after the token arrived see an already-closed channel. After Logout a new,
// open channel is handed out.
func (m *Manager) TokenReceived() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.received
}

// Store saves the token and profile and notifies TokenReceived subscribers.
func (m *Manager) Store(tok *oauth2.Token, profile Profile) error {
	if tok == nil || tok.AccessToken == "" {
		return errors.New("empty token")
	}

	tokData, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	profData, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Write(TokenKey, tokData); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := m.store.Write(ProfileKey, profData); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}

	t := *tok
	m.token = &t
	m.profile = &profile
	select {
	case <-m.received:
	default:
		close(m.received)
	}
	return nil
}

// UpdateToken replaces a refreshed token without touching the profile.
func (m *Manager) UpdateToken(tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return ErrNotLoggedIn
	}
	if err := m.store.Write(TokenKey, data); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	t := *tok
	m.token = &t
	return nil
}

// Logout revokes the token on a best-effort basis and clears the session.
// It reports whether a session existed.
func (m *Manager) Logout(ctx context.Context) (bool, error) {
	m.mu.Lock()
	tok := m.token
	m.mu.Unlock()

	if tok != nil {
		m.revoke(ctx, tok)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existed := m.token != nil || m.profile != nil
	for _, key := range []string{TokenKey, ProfileKey} {
		if !m.store.Has(key) {
			continue
		}
		if err := m.store.Erase(key); err != nil {
			return existed, fmt.Errorf("remove %s: %w", key, err)
		}
	}

	m.token = nil
	m.profile = nil
	select {
	case <-m.received:
		m.received = make(chan struct{})
	default:
	}
	return existed, nil
}

func (m *Manager) revoke(ctx context.Context, tok *oauth2.Token) {
	if m.RevokeURL == "" {
		return
	}
	value := tok.RefreshToken
	if value == "" {
		value = tok.AccessToken
	}

	ctx, cancel := context.WithTimeout(ctx, revokeTimeout)
	defer cancel()

	form := url.Values{"token": {value}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.RevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		m.log.Error(err, "build revoke request")
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := m.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		m.log.V(1).Info("token revocation failed", "err", err.Error())
		return
	}
	resp.Body.Close()
	m.log.V(1).Info("token revoked", "status", resp.StatusCode)
}

// TokenSource returns a source for the stored token. With a non-nil conf the
// token is refreshed when it expires and the refreshed token is persisted.
func (m *Manager) TokenSource(ctx context.Context, conf *oauth2.Config) (oauth2.TokenSource, error) {
	tok, ok := m.Token()
	if !ok {
		return nil, ErrNotLoggedIn
	}
	if conf == nil {
		return oauth2.StaticTokenSource(tok), nil
	}
	return &persistingSource{
		m:    m,
		src:  oauth2.ReuseTokenSource(tok, conf.TokenSource(ctx, tok)),
		last: tok.AccessToken,
	}, nil
}

type persistingSource struct {
	m    *Manager
	src  oauth2.TokenSource
	mu   sync.Mutex
	last string
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := s.m.UpdateToken(tok); err != nil {
			s.m.log.Error(err, "persist refreshed token")
		}
	}
	return tok, nil
}
