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
)

func init() {
	Register(&ListsCmd{})
}

// ListsCmd implements the lists command.
type ListsCmd struct{}

func (c *ListsCmd) Name() string      { return "lists" }
func (c *ListsCmd) Aliases() []string { return nil }
func (c *ListsCmd) Synopsis() string  { return "Print your lists" }
func (c *ListsCmd) Usage() string     { return "gtodo lists [common flags]" }
func (c *ListsCmd) NeedsAuth() bool   { return true }

func (c *ListsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	dash, code := openDashboard(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	defer dash.Close()

	lists := dash.Lists()
	if len(lists) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no lists")
		}
		return exitcode.Success
	}
	output.FormatLists(out, lists)
	return exitcode.Success
}
