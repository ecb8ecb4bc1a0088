// Package auth runs the OAuth authorization-code flow against a loopback
// redirect, with PKCE.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// CallbackTimeout bounds how long Wait waits for the browser redirect.
	CallbackTimeout = 5 * time.Minute

	// Token exchange timeout
	tokenExchangeTimeout = 30 * time.Second

	// Starting port for OAuth callback server
	startPort = 8085

	// Max port attempts
	maxPortAttempts = 5
)

// Scopes are the OAuth scopes requested at login.
var Scopes = []string{"openid", "profile", "email"}

var (
	// ErrCallbackTimeout is returned when the browser never redirected back.
	ErrCallbackTimeout = errors.New("oauth callback timed out")

	// ErrStateMismatch is returned when the callback carries a foreign state.
	ErrStateMismatch = errors.New("oauth state mismatch")
)

// LoadConfig reads a Google OAuth client file (oauth_client.json).
func LoadConfig(path string) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	conf, err := google.ConfigFromJSON(clientJSON, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return conf, nil
}

// Flow is one pending login. It owns the loopback callback server until Wait
// or Close returns.
type Flow struct {
	conf     *oauth2.Config
	verifier string
	state    string
	authURL  string

	server *http.Server
	codeCh chan string
	errCh  chan error
	once   sync.Once
}

// Start binds a loopback port, points conf's redirect at it and serves the callback.
func Start(conf *oauth2.Config) (*Flow, error) {
	port, listener, err := findAvailablePort()
	if err != nil {
		return nil, err
	}

	c := *conf
	c.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)

	f := &Flow{
		conf:     &c,
		verifier: oauth2.GenerateVerifier(),
		state:    uuid.NewString(),
		codeCh:   make(chan string, 1),
		errCh:    make(chan error, 1),
	}
	f.authURL = c.AuthCodeURL(f.state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(f.verifier),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", f.handleCallback)
	f.server = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := f.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			f.fail(err)
		}
	}()
	return f, nil
}

// URL is the consent page the user has to open.
func (f *Flow) URL() string { return f.authURL }

// RedirectURL is the loopback callback address.
func (f *Flow) RedirectURL() string { return f.conf.RedirectURL }

func (f *Flow) fail(err error) {
	select {
	case f.errCh <- err:
	default:
	}
}

func (f *Flow) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if msg := q.Get("error"); msg != "" {
		http.Error(w, "Authentication failed: "+msg, http.StatusBadRequest)
		f.fail(fmt.Errorf("authorization denied: %s", msg))
		return
	}
	if q.Get("state") != f.state {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		f.fail(ErrStateMismatch)
		return
	}
	code := q.Get("code")
	if code == "" {
		http.Error(w, "No code in callback", http.StatusBadRequest)
		f.fail(errors.New("no code in callback"))
		return
	}
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, "<html><body><h1>Authentication successful</h1><p>You may close this window.</p></body></html>")
	select {
	case f.codeCh <- code:
	default:
	}
}

// Wait blocks until the browser redirects back, then exchanges the code for
// a token. The callback server is shut down before Wait returns.
func (f *Flow) Wait(ctx context.Context) (*oauth2.Token, error) {
	defer f.Close()

	timer := time.NewTimer(CallbackTimeout)
	defer timer.Stop()

	var code string
	select {
	case code = <-f.codeCh:
	case err := <-f.errCh:
		return nil, err
	case <-timer.C:
		return nil, ErrCallbackTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancel()

	token, err := f.conf.Exchange(exchangeCtx, code, oauth2.VerifierOption(f.verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	return token, nil
}

// Close stops the callback server. Safe to call more than once.
func (f *Flow) Close() {
	f.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = f.server.Shutdown(ctx)
	})
}

// findAvailablePort tries to find an available port starting from startPort.
func findAvailablePort() (int, net.Listener, error) {
	for i := 0; i < maxPortAttempts; i++ {
		port := startPort + i
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			return port, listener, nil
		}
	}
	return 0, nil, errors.New("could not bind to local port for OAuth callback")
}
