package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/form"
	"gtodo/internal/listview"
	"gtodo/internal/output"
	"gtodo/internal/service"
	"gtodo/internal/session"
)

var (
	errListNotFound  = errors.New("list not found")
	errAmbiguousList = errors.New("ambiguous list name")
)

// profileOf returns the signed-in profile, or the zero profile without a session.
func profileOf(cfg *config.Config) session.Profile {
	if cfg.Session == nil {
		return session.Profile{}
	}
	p, _ := cfg.Session.Profile()
	return p
}

// findList matches name against list titles, case-insensitively.
func findList(lists []service.TodoList, name string) (service.TodoList, error) {
	want := strings.TrimSpace(name)
	var matches []service.TodoList
	for _, l := range lists {
		if strings.EqualFold(strings.TrimSpace(l.Title), want) {
			matches = append(matches, l)
		}
	}
	switch len(matches) {
	case 0:
		return service.TodoList{}, fmt.Errorf("%w: %s", errListNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return service.TodoList{}, fmt.Errorf("%w: %s", errAmbiguousList, name)
	}
}

// backendFailure prints err and returns the matching exit code.
func backendFailure(errOut io.Writer, err error) int {
	if errors.Is(err, service.ErrUnauthorized) {
		fmt.Fprintf(errOut, "error: %v\n", service.ErrUnauthorized)
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// openDashboard loads the signed-in user's lists. The caller closes the dashboard.
func openDashboard(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer) (*listview.Dashboard, int) {
	dash := listview.NewDashboard(ctx, svc, profileOf(cfg), cfg.Log)
	if err := dash.Refresh(ctx); err != nil {
		dash.Close()
		return nil, backendFailure(errOut, err)
	}
	return dash, exitcode.Success
}

// openList resolves the list named name and loads its todos into a view.
// The caller closes the view.
func openList(ctx context.Context, cfg *config.Config, svc service.Service, name string, errOut io.Writer) (*listview.TodoListView, int) {
	if strings.TrimSpace(name) == "" {
		fmt.Fprintln(errOut, "error: --list required")
		return nil, exitcode.UserError
	}

	dash, code := openDashboard(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return nil, code
	}
	list, err := findList(dash.Lists(), name)
	dash.Close()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, exitcode.UserError
	}

	view := listview.NewTodoListView(ctx, svc, listview.Options{Log: cfg.Log})
	if err := view.Switch(ctx, list); err != nil {
		view.Close()
		return nil, backendFailure(errOut, err)
	}
	return view, exitcode.Success
}

// pickTodo resolves a 1-based position in the unfiltered list order.
func pickTodo(view *listview.TodoListView, args []string, errOut io.Writer) (service.Todo, int) {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: todo number required")
		return service.Todo{}, exitcode.UserError
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		fmt.Fprintf(errOut, "error: invalid todo number: %s\n", args[0])
		return service.Todo{}, exitcode.UserError
	}
	todos := view.Todos()
	if n > len(todos) {
		fmt.Fprintf(errOut, "error: todo number out of range: %d\n", n)
		return service.Todo{}, exitcode.UserError
	}
	return todos[n-1], exitcode.Success
}

// fill assigns the non-empty raw values to the form's inputs.
func fill(f *form.Form, raw map[string]string) error {
	for key, v := range raw {
		if v == "" {
			continue
		}
		if err := f.Set(key, v); err != nil {
			return err
		}
	}
	return nil
}

// invalidForm reports why a form cannot be confirmed.
func invalidForm(f *form.Form, errOut io.Writer) int {
	if errs := f.Errors(); len(errs) > 0 {
		output.FormatFieldErrors(errOut, errs)
		return exitcode.UserError
	}
	fmt.Fprintln(errOut, "error: nothing to change")
	return exitcode.UserError
}
