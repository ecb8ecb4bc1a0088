package listview

import (
	"context"
	"sync"

	"github.com/go-logr/logr"

	"gtodo/internal/dialog"
	"gtodo/internal/form"
	"gtodo/internal/scope"
	"gtodo/internal/service"
	"gtodo/internal/session"
)

// Dashboard is the signed-in home screen: the user's lists.
type Dashboard struct {
	svc     service.Service
	log     logr.Logger
	profile session.Profile
	scope   *scope.Set
	changes notifier

	mu    sync.Mutex
	lists []service.TodoList
}

// NewDashboard returns a dashboard for profile. Its scope ends with ctx or Close.
func NewDashboard(ctx context.Context, svc service.Service, profile session.Profile, log logr.Logger) *Dashboard {
	return &Dashboard{
		svc:     svc,
		log:     log.WithName("dashboard"),
		profile: profile,
		scope:   scope.New(ctx),
		lists:   []service.TodoList{},
	}
}

// Profile returns the signed-in user.
func (d *Dashboard) Profile() session.Profile { return d.profile }

// Context is done once the dashboard is closed.
func (d *Dashboard) Context() context.Context { return d.scope.Context() }

// Changes receives after the lists changed.
func (d *Dashboard) Changes() <-chan struct{} { return d.changes.C() }

// Close ends the dashboard's scope.
func (d *Dashboard) Close() { d.scope.Dispose() }

// Lists returns the user's lists in API order.
func (d *Dashboard) Lists() []service.TodoList {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]service.TodoList{}, d.lists...)
}

// Load fetches the user's lists. A failed fetch shows no lists.
func (d *Dashboard) Load(ctx context.Context) {
	_ = d.Refresh(ctx)
}

// Refresh is Load that also reports the fetch error.
func (d *Dashboard) Refresh(ctx context.Context) error {
	lists, err := d.svc.ListTodoLists(ctx, d.profile.Subject)
	if err != nil {
		d.log.Error(err, "load lists")
		lists = nil
	}
	if lists == nil {
		lists = []service.TodoList{}
	}

	d.mu.Lock()
	d.lists = lists
	d.mu.Unlock()
	d.changes.notify()
	return err
}

// OpenCreate opens the add list dialog.
func (d *Dashboard) OpenCreate() (*dialog.FormDialog, error) {
	return dialog.OpenForm(dialog.Spec[service.TodoList]{
		Title:    TitleAddList,
		Controls: ListControls,
	}, form.ListValues, nil)
}

// Create adds a list owned by the signed-in user from the dialog's result.
// A cancelled dialog is a no-op.
func (d *Dashboard) Create(ctx context.Context, res dialog.Result[form.Values]) (service.TodoList, error) {
	if res.Cancelled {
		return service.TodoList{}, nil
	}

	list := service.TodoList{}
	res.Value.ApplyList(&list)
	list.UserID = d.profile.Subject

	created, err := d.svc.CreateTodoList(ctx, list)
	if err != nil {
		return service.TodoList{}, err
	}

	d.mu.Lock()
	d.lists = append(d.lists, created)
	d.mu.Unlock()
	d.changes.notify()
	return created, nil
}
