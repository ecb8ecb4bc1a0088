// Package listview holds the headless view models behind the dashboard and
// the to-do list screen. The CLI drives them once per command; the terminal
// UI keeps them open and redraws on every change notification.
package listview

import (
	"sync"
	"time"

	"gtodo/internal/form"
)

// SearchWait is the quiet period before a search change is applied.
const SearchWait = 300 * time.Millisecond

// Dialog titles.
const (
	TitleAddTodo = "Add Todo"
	TitleEdit    = "Edit Todo"
	TitleAddList = "Add TodoList"
)

// TodoControls are the form fields of the add and edit todo dialogs.
var TodoControls = []string{form.FieldTitle, form.FieldText, form.FieldDeadlineDate}

// ListControls are the form fields of the add list dialog.
var ListControls = []string{form.FieldTitle}

// notifier coalesces change notifications into a channel with room for one.
type notifier struct {
	once sync.Once
	ch   chan struct{}
}

func (n *notifier) init() {
	n.once.Do(func() { n.ch = make(chan struct{}, 1) })
}

// C receives a value after one or more changes.
func (n *notifier) C() <-chan struct{} {
	n.init()
	return n.ch
}

func (n *notifier) notify() {
	n.init()
	select {
	case n.ch <- struct{}{}:
	default:
	}
}
