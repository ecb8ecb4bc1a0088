package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/service"
)

func init() {
	Register(&DoneCmd{})
	Register(&UndoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct {
	listName string
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"check"} }
func (c *DoneCmd) Synopsis() string  { return "Mark a todo completed" }
func (c *DoneCmd) Usage() string     { return "gtodo done [common flags] --list <title> <n>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runToggle(ctx, cfg, svc, c.listName, true, args, out, errOut)
}

// UndoneCmd implements the undone command.
type UndoneCmd struct {
	listName string
}

func (c *UndoneCmd) Name() string      { return "undone" }
func (c *UndoneCmd) Aliases() []string { return []string{"uncheck"} }
func (c *UndoneCmd) Synopsis() string  { return "Mark a todo active again" }
func (c *UndoneCmd) Usage() string     { return "gtodo undone [common flags] --list <title> <n>" }
func (c *UndoneCmd) NeedsAuth() bool   { return true }

func (c *UndoneCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *UndoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runToggle(ctx, cfg, svc, c.listName, false, args, out, errOut)
}

// runToggle is the shared implementation for done and undone.
func runToggle(ctx context.Context, cfg *config.Config, svc service.Service, listName string, checked bool, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: todo number required")
		return exitcode.UserError
	}

	view, code := openList(ctx, cfg, svc, listName, errOut)
	if code != exitcode.Success {
		return code
	}
	defer view.Close()

	todo, code := pickTodo(view, args, errOut)
	if code != exitcode.Success {
		return code
	}
	if _, err := view.Toggle(ctx, todo, checked); err != nil {
		return backendFailure(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
