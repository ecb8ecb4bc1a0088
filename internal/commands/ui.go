package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"

	"gtodo/internal/auth"
	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/logging"
	"gtodo/internal/service"
	"gtodo/internal/tui"
)

// UILogFile receives debug logs while the terminal UI owns the screen.
const UILogFile = "ui.log"

func init() {
	Register(&UICmd{})
}

// UICmd implements the ui command. It is also what a bare `gtodo` runs.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return nil }
func (c *UICmd) Synopsis() string  { return "Open the terminal UI" }
func (c *UICmd) Usage() string     { return "gtodo ui [common flags]" }

// NeedsAuth is false: the UI guards its own routes and offers a login screen.
func (c *UICmd) NeedsAuth() bool { return false }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	log := logr.Discard()
	if cfg.Debug {
		if err := cfg.EnsureDir(); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		f, err := os.OpenFile(filepath.Join(cfg.Dir, UILogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		defer f.Close()
		log = logging.New(f, true)
	}

	var start func() (tui.LoginFlow, error)
	if cfg.HasOAuthClient() {
		path := cfg.OAuthClientPath()
		start = func() (tui.LoginFlow, error) {
			conf, err := auth.LoadConfig(path)
			if err != nil {
				return nil, err
			}
			flow, err := auth.Start(conf)
			if err != nil {
				return nil, err
			}
			return flow, nil
		}
	}

	newService := cfg.NewService
	if newService == nil {
		newService = func(ctx context.Context) (service.Service, error) {
			return svc, nil
		}
	}

	err := tui.Run(ctx, tui.Options{
		Session:    cfg.Session,
		NewService: newService,
		StartLogin: start,
		AuthWait:   cfg.AuthWait,
		Log:        log,
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
