// Package debounce coalesces bursts of values arriving on a channel.
package debounce

import (
	"context"
	"time"
)

// Debounce emits the latest value from in once no new value has arrived for
// wait, skipping values equal to the last one emitted. The returned channel is
// closed when ctx is done or in is closed; a pending value is flushed when in closes.
func Debounce[T comparable](ctx context.Context, in <-chan T, wait time.Duration) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)

		var (
			timer   *time.Timer
			fire    <-chan time.Time
			pending T
			last    T
			hasLast bool
		)
		emit := func() bool {
			fire = nil
			if hasLast && pending == last {
				return true
			}
			select {
			case out <- pending:
				last, hasLast = pending, true
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case v, ok := <-in:
				if !ok {
					if fire != nil {
						timer.Stop()
						emit()
					}
					return
				}
				pending = v
				if timer == nil {
					timer = time.NewTimer(wait)
				} else {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(wait)
				}
				fire = timer.C
			case <-fire:
				if !emit() {
					return
				}
			}
		}
	}()
	return out
}

// Distinct forwards values from in, dropping consecutive duplicates.
func Distinct[T comparable](ctx context.Context, in <-chan T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		var (
			last    T
			hasLast bool
		)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				if hasLast && v == last {
					continue
				}
				select {
				case out <- v:
					last, hasLast = v, true
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
