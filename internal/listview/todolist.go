package listview

import (
	"context"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"gtodo/internal/debounce"
	"gtodo/internal/dialog"
	"gtodo/internal/filter"
	"gtodo/internal/form"
	"gtodo/internal/scope"
	"gtodo/internal/service"
)

// Options tunes a view. Zero values pick the defaults.
type Options struct {
	// SearchWait overrides the search debounce period.
	SearchWait time.Duration
	// Location is where deadlines are split into date and time inputs.
	Location *time.Location
	Log      logr.Logger
}

func (o Options) searchWait() time.Duration {
	if o.SearchWait > 0 {
		return o.SearchWait
	}
	return SearchWait
}

func (o Options) location() *time.Location {
	if o.Location != nil {
		return o.Location
	}
	return time.Local
}

// TodoListView is the to-do list screen: the todos of one list and the
// filter applied to them.
type TodoListView struct {
	svc     service.Service
	log     logr.Logger
	loc     *time.Location
	scope   *scope.Set
	changes notifier

	search chan string
	status chan filter.Status

	mu       sync.Mutex
	list     service.TodoList
	todos    []service.Todo
	filtered []service.Todo
	state    filter.State
}

// NewTodoListView starts the view's filter subscriptions. They stop when ctx
// is done or Close is called.
func NewTodoListView(ctx context.Context, svc service.Service, opts Options) *TodoListView {
	v := &TodoListView{
		svc:      svc,
		log:      opts.Log.WithName("todolist"),
		loc:      opts.location(),
		scope:    scope.New(ctx),
		search:   make(chan string),
		status:   make(chan filter.Status),
		todos:    []service.Todo{},
		filtered: []service.Todo{},
		state:    filter.State{Status: filter.StatusAll},
	}

	wait := opts.searchWait()
	v.scope.Go(func(ctx context.Context) {
		for s := range debounce.Debounce[string](ctx, v.search, wait) {
			v.mu.Lock()
			v.state.Search = s
			v.refilter()
			v.mu.Unlock()
			v.changes.notify()
		}
	})
	v.scope.Go(func(ctx context.Context) {
		for st := range debounce.Distinct[filter.Status](ctx, v.status) {
			v.mu.Lock()
			v.state.Status = st
			v.refilter()
			v.mu.Unlock()
			v.changes.notify()
		}
	})
	return v
}

// Changes receives after the visible state changed.
func (v *TodoListView) Changes() <-chan struct{} { return v.changes.C() }

// Context is done once the view is closed.
func (v *TodoListView) Context() context.Context { return v.scope.Context() }

// Close cancels the view's subscriptions and waits for them to stop.
func (v *TodoListView) Close() { v.scope.Dispose() }

// SetSearch feeds the search box. The value is applied after SearchWait
// without further input, and only if it differs from the last applied one.
func (v *TodoListView) SetSearch(s string) {
	select {
	case v.search <- s:
	case <-v.scope.Context().Done():
	}
}

// SetStatus feeds the status selector. Repeats are ignored.
func (v *TodoListView) SetStatus(st filter.Status) {
	select {
	case v.status <- st:
	case <-v.scope.Context().Done():
	}
}

// ApplyFilter sets both filter inputs at once, skipping the debounce.
func (v *TodoListView) ApplyFilter(state filter.State) {
	v.mu.Lock()
	v.state = state
	v.refilter()
	v.mu.Unlock()
	v.changes.notify()
}

// Filter returns the filter state currently applied.
func (v *TodoListView) Filter() filter.State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// List returns the list being shown.
func (v *TodoListView) List() service.TodoList {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.list
}

// Todos returns every todo of the list in API order.
func (v *TodoListView) Todos() []service.Todo {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]service.Todo{}, v.todos...)
}

// Filtered returns the todos that pass the current filter.
func (v *TodoListView) Filtered() []service.Todo {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]service.Todo{}, v.filtered...)
}

// refilter must be called with mu held.
func (v *TodoListView) refilter() {
	v.filtered = v.state.Apply(v.todos)
}

// Load switches to list and fetches its todos. A failed fetch shows an
// empty list.
func (v *TodoListView) Load(ctx context.Context, list service.TodoList) {
	_ = v.Switch(ctx, list)
}

// Switch is Load that also reports the fetch error.
func (v *TodoListView) Switch(ctx context.Context, list service.TodoList) error {
	v.mu.Lock()
	v.list = list
	v.mu.Unlock()
	return v.fetch(ctx)
}

// Reload fetches the todos of the current list again.
func (v *TodoListView) Reload(ctx context.Context) {
	_ = v.fetch(ctx)
}

func (v *TodoListView) fetch(ctx context.Context) error {
	list := v.List()
	todos, err := v.svc.ListTodos(ctx, list.ID)
	if err != nil {
		v.log.Error(err, "load todos", "list", list.ID)
		todos = nil
	}
	if todos == nil {
		todos = []service.Todo{}
	}

	v.mu.Lock()
	v.todos = todos
	v.refilter()
	v.mu.Unlock()
	v.changes.notify()
	return err
}

// OpenAdd opens the add todo dialog.
func (v *TodoListView) OpenAdd() (*dialog.FormDialog, error) {
	return dialog.OpenForm(dialog.Spec[service.Todo]{
		Title:    TitleAddTodo,
		Controls: TodoControls,
	}, form.TodoValues, v.loc)
}

// Add creates a todo from the add dialog's result. A cancelled dialog is a no-op.
func (v *TodoListView) Add(ctx context.Context, res dialog.Result[form.Values]) (service.Todo, error) {
	if res.Cancelled {
		return service.Todo{}, nil
	}

	todo := service.Todo{}
	res.Value.ApplyTodo(&todo)
	todo.IsActive = true
	todo.ListID = v.List().ID

	created, err := v.svc.CreateTodo(ctx, todo)
	if err != nil {
		return service.Todo{}, err
	}

	v.mu.Lock()
	v.todos = append(v.todos, created)
	v.refilter()
	v.mu.Unlock()
	v.changes.notify()
	return created, nil
}

// OpenEdit opens the edit dialog prefilled from todo.
func (v *TodoListView) OpenEdit(todo service.Todo) (*dialog.FormDialog, error) {
	return dialog.OpenForm(dialog.Spec[service.Todo]{
		Title:    TitleEdit,
		Controls: TodoControls,
		Item:     &todo,
	}, form.TodoValues, v.loc)
}

// Edit merges the edit dialog's result into todo and saves it. A cancelled
// dialog is a no-op.
func (v *TodoListView) Edit(ctx context.Context, todo service.Todo, res dialog.Result[form.Values]) (service.Todo, error) {
	if res.Cancelled {
		return todo, nil
	}
	res.Value.ApplyTodo(&todo)
	return v.save(ctx, todo)
}

// Toggle checks or unchecks todo. A checked todo is no longer active.
func (v *TodoListView) Toggle(ctx context.Context, todo service.Todo, checked bool) (service.Todo, error) {
	todo.IsActive = !checked
	return v.save(ctx, todo)
}

func (v *TodoListView) save(ctx context.Context, todo service.Todo) (service.Todo, error) {
	updated, err := v.svc.UpdateTodo(ctx, todo)
	if err != nil {
		return todo, err
	}

	v.mu.Lock()
	for i := range v.todos {
		if v.todos[i].ID == updated.ID {
			v.todos[i] = updated
			break
		}
	}
	v.refilter()
	v.mu.Unlock()
	v.changes.notify()
	return updated, nil
}

// Delete removes todo and reloads the list.
func (v *TodoListView) Delete(ctx context.Context, todo service.Todo) error {
	if err := v.svc.DeleteTodo(ctx, todo.ID); err != nil {
		return err
	}
	v.Reload(ctx)
	return nil
}
