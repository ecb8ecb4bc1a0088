package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/gosuri/uitable"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "gtodo help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, cmd := range DefaultRegistry.All() {
		tbl.AddRow("  "+cmd.Name(), cmd.Synopsis())
	}
	fmt.Fprintln(out, tbl)
	return exitcode.Success
}

const helpText = `Usage:
  gtodo                                             Open the terminal UI
  gtodo ui [common flags]
  gtodo lists [common flags]
  gtodo createlist [common flags] <title...>
  gtodo addlist [common flags] <title...>
  gtodo todos [common flags] --list <title> [--search <text>] [--status all|active|completed]
  gtodo add [common flags] --list <title> --text <text> --date <YYYY-MM-DD> --time <HH:MM> <title...>
  gtodo edit [common flags] --list <title> [--title <t>] [--text <t>] [--date <d>] [--time <t>] <n>
  gtodo done [common flags] --list <title> <n>
  gtodo undone [common flags] --list <title> <n>
  gtodo rm [common flags] --list <title> <n>
  gtodo login [common flags]
  gtodo logout [common flags]
  gtodo whoami [common flags]
  gtodo serve [common flags] [--addr <addr>] [--db <path>] [--no-auth]
  gtodo help
  gtodo version

<n> is the 1-based position of a todo in its list, as printed by 'gtodo todos'.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
