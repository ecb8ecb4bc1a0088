// Package config handles the XDG configuration directory, file paths and settings.
package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"gtodo/internal/service"
	"gtodo/internal/session"
)

const (
	// AppName is the application directory name.
	AppName = "gtodo"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// SessionDir holds the persisted session keys.
	SessionDir = "session"

	// SettingsName is the optional settings file (config.yaml) without extension.
	SettingsName = "config"

	// DefaultAPIURL is the REST API the client talks to when nothing is configured.
	DefaultAPIURL = "http://localhost:3000"

	// DefaultServerAddr is the listen address of `gtodo serve`.
	DefaultServerAddr = ":3000"

	// EnvPrefix prefixes environment overrides, e.g. GTODO_API_URL.
	EnvPrefix = "GTODO"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// APIURL is the base URL of the to-do REST API.
	APIURL string

	// ServerAddr is the listen address for the API server.
	ServerAddr string

	// ServerDB is the SQLite database path for the API server.
	ServerDB string

	// AuthWait bounds how long the route guard waits for a token to arrive.
	AuthWait time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Log is the command logger. The zero value discards.
	Log logr.Logger

	// Session is the persisted login session, opened by the dispatcher.
	Session *session.Manager

	// NewService builds the backend client for commands that need one.
	NewService func(ctx context.Context) (service.Service, error)
}

// New creates a Config for the default or specified config directory and reads
// config.yaml from it when present. If configDir is empty, uses
// XDG_CONFIG_HOME/gtodo or $HOME/.config/gtodo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	dir, err := homedir.Expand(dir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.db", filepath.Join(dir, "gtodo.db"))
	v.SetDefault("auth_wait", "0s")
	v.SetConfigName(SettingsName)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	serverDB, err := homedir.Expand(v.GetString("server.db"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Dir:        dir,
		APIURL:     v.GetString("api_url"),
		ServerAddr: v.GetString("server.addr"),
		ServerDB:   serverDB,
		AuthWait:   v.GetDuration("auth_wait"),
	}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := homedir.Dir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// SessionPath returns the directory of the persisted session store.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionDir)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}
