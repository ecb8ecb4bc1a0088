package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dir != dir {
		t.Errorf("expected dir %s, got %s", dir, cfg.Dir)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("expected default api url, got %s", cfg.APIURL)
	}
	if cfg.ServerAddr != DefaultServerAddr {
		t.Errorf("expected default addr, got %s", cfg.ServerAddr)
	}
	if cfg.ServerDB != filepath.Join(dir, "gtodo.db") {
		t.Errorf("unexpected db path %s", cfg.ServerDB)
	}
	if cfg.AuthWait != 0 {
		t.Errorf("expected zero auth wait, got %v", cfg.AuthWait)
	}
}

func TestNew_ReadsSettingsFile(t *testing.T) {
	dir := t.TempDir()
	settings := "api_url: https://todo.example.com\nauth_wait: 2s\nserver:\n  addr: 127.0.0.1:9000\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(settings), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "https://todo.example.com" {
		t.Errorf("unexpected api url %s", cfg.APIURL)
	}
	if cfg.ServerAddr != "127.0.0.1:9000" {
		t.Errorf("unexpected addr %s", cfg.ServerAddr)
	}
	if cfg.AuthWait != 2*time.Second {
		t.Errorf("unexpected auth wait %v", cfg.AuthWait)
	}
}

func TestNew_EnvOverride(t *testing.T) {
	t.Setenv("GTODO_API_URL", "http://api.internal:8080")
	cfg, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "http://api.internal:8080" {
		t.Errorf("expected env override, got %s", cfg.APIURL)
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("unexpected dir %s", got)
	}
}

func TestPaths(t *testing.T) {
	cfg := &Config{Dir: "/cfg"}
	if cfg.OAuthClientPath() != filepath.Join("/cfg", OAuthClientFile) {
		t.Errorf("unexpected oauth path %s", cfg.OAuthClientPath())
	}
	if cfg.SessionPath() != filepath.Join("/cfg", SessionDir) {
		t.Errorf("unexpected session path %s", cfg.SessionPath())
	}
	if cfg.HasOAuthClient() {
		t.Error("expected no oauth client")
	}
}
