package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/output"
	"gtodo/internal/service"
	"gtodo/internal/session"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd implements the whoami command.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Print the signed-in user" }
func (c *WhoamiCmd) Usage() string     { return "gtodo whoami [common flags]" }
func (c *WhoamiCmd) NeedsAuth() bool   { return false }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if cfg.Session == nil {
		fmt.Fprintf(errOut, "error: %v\n", session.ErrNotLoggedIn)
		return exitcode.AuthError
	}
	if _, ok := cfg.Session.CurrentToken(); !ok {
		fmt.Fprintf(errOut, "error: %v\n", session.ErrNotLoggedIn)
		return exitcode.AuthError
	}
	profile, _ := cfg.Session.Profile()
	output.FormatProfile(out, profile)
	return exitcode.Success
}
