package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/oauth2"

	"gtodo/internal/commands"
	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/session"
)

const oauthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

func writeOAuthClient(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, config.OAuthClientFile)
	if err := os.WriteFile(path, []byte(oauthClient), 0600); err != nil {
		t.Fatalf("failed to write oauth_client.json: %v", err)
	}
	return path
}

// signedOut returns a config with an empty session.
func signedOut(t *testing.T, quiet bool) *config.Config {
	t.Helper()
	dir := t.TempDir()
	sess, err := session.Open(filepath.Join(dir, config.SessionDir), logr.Discard())
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	sess.RevokeURL = ""
	return &config.Config{Dir: dir, Quiet: quiet, Log: logr.Discard(), Session: sess}
}

// TestLoginCommand_NoOAuthClient verifies login fails without oauth_client.json
func TestLoginCommand_NoOAuthClient(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cfg := signedOut(t, false)

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout, got %q", outBuf.String())
	}
	if !strings.HasPrefix(errBuf.String(), "error: oauth_client.json not found in "+cfg.Dir) {
		t.Errorf("expected error message about missing oauth_client.json, got %q", errBuf.String())
	}
}

// TestLoginCommand_InvalidOAuthClient verifies a malformed client file is an auth error
func TestLoginCommand_InvalidOAuthClient(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cfg := signedOut(t, false)
	if err := os.WriteFile(cfg.OAuthClientPath(), []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(errBuf.String(), "error: invalid oauth_client.json") {
		t.Errorf("unexpected stderr %q", errBuf.String())
	}
}

// TestLoginCommand_AlreadyLoggedIn verifies a valid session skips the browser flow
func TestLoginCommand_AlreadyLoggedIn(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cfg := newConfig(t, false)
	writeOAuthClient(t, cfg.Dir)

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, errBuf.String())
	}
	if outBuf.String() != "already logged in\n" {
		t.Errorf("expected 'already logged in\\n', got %q", outBuf.String())
	}
}

// TestLoginCommand_ExpiredWithoutRefresh verifies login proceeds when the
// stored token cannot be refreshed
func TestLoginCommand_ExpiredWithoutRefresh(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cfg := signedOut(t, false)
	writeOAuthClient(t, cfg.Dir)

	expired := &oauth2.Token{AccessToken: "test", TokenType: "Bearer", Expiry: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := cfg.Session.Store(expired, testProfile); err != nil {
		t.Fatal(err)
	}

	// Cancel up front so the flow returns instead of waiting for the browser
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(ctx, cfg, nil, nil, &outBuf, &errBuf)

	if outBuf.String() == "already logged in\n" {
		t.Error("should not say 'already logged in' with an expired token")
	}
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if strings.Contains(errBuf.String(), "Open this URL") && !strings.HasSuffix(errBuf.String(), "error: cancelled\n") {
		t.Errorf("expected cancelled flow, got %q", errBuf.String())
	}
}

// TestLogoutCommand_ClearsSession verifies logout removes the session but not
// the client credentials
func TestLogoutCommand_ClearsSession(t *testing.T) {
	cmd := &commands.LogoutCmd{}
	cfg := newConfig(t, false)
	oauthPath := writeOAuthClient(t, cfg.Dir)

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", outBuf.String())
	}

	if _, ok := cfg.Session.CurrentToken(); ok {
		t.Error("token should have been cleared")
	}

	// A fresh manager must not find the session either
	reopened, err := session.Open(cfg.SessionPath(), logr.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reopened.CurrentToken(); ok {
		t.Error("token should have been removed from disk")
	}

	if _, err := os.Stat(oauthPath); err != nil {
		t.Error("oauth_client.json should NOT have been deleted")
	}
}

// TestLogoutCommand_NotLoggedIn verifies logout handles not being logged in
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	cmd := &commands.LogoutCmd{}

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), signedOut(t, false), nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "not logged in\n" {
		t.Errorf("expected 'not logged in\\n', got %q", outBuf.String())
	}
}

// TestLogoutCommand_NotLoggedInQuiet verifies logout is quiet when not logged in
func TestLogoutCommand_NotLoggedInQuiet(t *testing.T) {
	cmd := &commands.LogoutCmd{}

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), signedOut(t, true), nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", outBuf.String())
	}
}

func TestWhoamiCommand(t *testing.T) {
	cmd := &commands.WhoamiCmd{}

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), newConfig(t, false), nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	for _, want := range []string{"Ada Lovelace", "ada@example.com", "u1"} {
		if !strings.Contains(outBuf.String(), want) {
			t.Errorf("expected %q in output, got %q", want, outBuf.String())
		}
	}
}

func TestWhoamiCommand_NotLoggedIn(t *testing.T) {
	cmd := &commands.WhoamiCmd{}

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), signedOut(t, false), nil, nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if errBuf.String() != "error: not logged in (run: gtodo login)\n" {
		t.Errorf("unexpected stderr %q", errBuf.String())
	}
}
