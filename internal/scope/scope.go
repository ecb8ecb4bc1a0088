// Package scope ties the lifetime of background subscriptions to the view that owns them.
package scope

import (
	"context"
	"sync"
)

// Set is a group of subscriptions that share one cancellation signal.
// A view creates a Set when it opens and disposes of it when it is torn down.
type Set struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// New returns a Set derived from parent.
func New(parent context.Context) *Set {
	ctx, cancel := context.WithCancel(parent)
	return &Set{ctx: ctx, cancel: cancel}
}

// Context is done once the Set is disposed (or its parent is done).
func (s *Set) Context() context.Context {
	return s.ctx
}

// Go runs fn in a goroutine tracked by the Set. fn must return once ctx is done.
func (s *Set) Go(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
}

// Disposed reports whether the Set has been cancelled.
func (s *Set) Disposed() bool {
	return s.ctx.Err() != nil
}

// Dispose cancels every subscription and waits for them to return. Safe to call more than once.
func (s *Set) Dispose() {
	s.once.Do(s.cancel)
	s.wg.Wait()
}
