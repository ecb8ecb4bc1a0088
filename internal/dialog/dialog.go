// Package dialog defines how a modal interaction hands its outcome back to the
// view that opened it.
package dialog

import (
	"context"
	"errors"
	"sync"
)

// State is the lifecycle state of a dialog.
type State int

const (
	StateOpen State = iota
	StateResolved
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateResolved:
		return "resolved"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ErrClosed is returned when resolving or cancelling a dialog that already closed.
var ErrClosed = errors.New("dialog already closed")

// Result is what the opener receives. Value is only meaningful when Cancelled is false.
type Result[T any] struct {
	Value     T
	Cancelled bool
}

// Spec describes a dialog to open. Item is nil for create dialogs.
type Spec[T any] struct {
	Title    string
	Controls []string
	Item     *T
}

// Dialog is a single modal invocation. The first Resolve or Cancel wins.
type Dialog[T any] struct {
	Title string

	mu     sync.Mutex
	state  State
	result Result[T]
	done   chan struct{}
}

// Open starts a dialog in StateOpen.
func Open[T any](title string) *Dialog[T] {
	return &Dialog[T]{Title: title, done: make(chan struct{})}
}

// State returns the current state.
func (d *Dialog[T]) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Resolve closes the dialog with a payload.
func (d *Dialog[T]) Resolve(v T) error {
	return d.close(StateResolved, Result[T]{Value: v})
}

// Cancel closes the dialog without a payload.
func (d *Dialog[T]) Cancel() error {
	return d.close(StateCancelled, Result[T]{Cancelled: true})
}

func (d *Dialog[T]) close(s State, r Result[T]) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateOpen {
		return ErrClosed
	}
	d.state = s
	d.result = r
	close(d.done)
	return nil
}

// Done is closed when the dialog leaves StateOpen.
func (d *Dialog[T]) Done() <-chan struct{} {
	return d.done
}

// Wait blocks until the dialog closes or ctx is done. A dialog abandoned by
// ctx cancellation reports as cancelled.
func (d *Dialog[T]) Wait(ctx context.Context) (Result[T], error) {
	select {
	case <-d.done:
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.result, nil
	case <-ctx.Done():
		return Result[T]{Cancelled: true}, ctx.Err()
	}
}
