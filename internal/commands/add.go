package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/form"
	"gtodo/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	listName string
	text     string
	date     string
	clock    string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a todo" }
func (c *AddCmd) Usage() string {
	return "gtodo add [common flags] --list <title> --text <text> --date <YYYY-MM-DD> --time <HH:MM> <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
	fs.StringVar(&c.text, "text", "", "")
	fs.StringVar(&c.date, "date", "", "")
	fs.StringVar(&c.clock, "time", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	view, code := openList(ctx, cfg, svc, c.listName, errOut)
	if code != exitcode.Success {
		return code
	}
	defer view.Close()

	dlg, err := view.OpenAdd()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	err = fill(dlg.Form, map[string]string{
		form.FieldTitle:                  title,
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
	if _, err := view.Add(ctx, res); err != nil {
		return backendFailure(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
