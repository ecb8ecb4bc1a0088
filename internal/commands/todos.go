package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/filter"
	"gtodo/internal/output"
	"gtodo/internal/service"
)

func init() {
	Register(&TodosCmd{})
}

// TodosCmd implements the todos command.
type TodosCmd struct {
	listName string
	search   string
	status   string
	now      func() time.Time
}

// SetNow pins the clock used to mark overdue deadlines (for testing).
func (c *TodosCmd) SetNow(now func() time.Time) {
	c.now = now
}

func (c *TodosCmd) Name() string      { return "todos" }
func (c *TodosCmd) Aliases() []string { return []string{"ls"} }
func (c *TodosCmd) Synopsis() string  { return "Print the todos of a list" }
func (c *TodosCmd) Usage() string {
	return "gtodo todos [common flags] --list <title> [--search <text>] [--status all|active|completed]"
}
func (c *TodosCmd) NeedsAuth() bool { return true }

func (c *TodosCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.status, "status", "all", "")
}

func (c *TodosCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	status, err := filter.ParseStatus(c.status)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	view, code := openList(ctx, cfg, svc, c.listName, errOut)
	if code != exitcode.Success {
		return code
	}
	defer view.Close()

	view.ApplyFilter(filter.State{Search: c.search, Status: status})
	items := output.Number(view.Todos(), view.Filtered())
	if len(items) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no todos")
		}
		return exitcode.Success
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	output.FormatTodos(out, items, time.Local, now())
	return exitcode.Success
}
