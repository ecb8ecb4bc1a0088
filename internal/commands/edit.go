package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/form"
	"gtodo/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Only the given flags change the todo.
type EditCmd struct {
	listName string
	title    string
	text     string
	date     string
	clock    string
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a todo" }
func (c *EditCmd) Usage() string {
	return "gtodo edit [common flags] --list <title> [--title <t>] [--text <t>] [--date <d>] [--time <t>] <n>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.text, "text", "", "")
	fs.StringVar(&c.date, "date", "", "")
	fs.StringVar(&c.clock, "time", "", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: todo number required")
		return exitcode.UserError
	}

	view, code := openList(ctx, cfg, svc, c.listName, errOut)
	if code != exitcode.Success {
		return code
	}
	defer view.Close()

	todo, code := pickTodo(view, args, errOut)
	if code != exitcode.Success {
		return code
	}

	dlg, err := view.OpenEdit(todo)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	err = fill(dlg.Form, map[string]string{
		form.FieldTitle:                  c.title,
		form.FieldText:                   c.text,
		form.FieldDeadlineDate + ".date": c.date,
		form.FieldDeadlineDate + ".time": c.clock,
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if !dlg.Form.CanConfirm() {
		return invalidForm(dlg.Form, errOut)
	}
	if err := dlg.Confirm(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	res, err := dlg.Wait(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if _, err := view.Edit(ctx, todo, res); err != nil {
		return backendFailure(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
