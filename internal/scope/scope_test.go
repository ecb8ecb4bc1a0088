package scope

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestDisposeCancelsAndWaits(t *testing.T) {
	s := New(context.Background())
	var stopped atomic.Int32

	for i := 0; i < 3; i++ {
		s.Go(func(ctx context.Context) {
			<-ctx.Done()
			time.Sleep(5 * time.Millisecond)
			stopped.Add(1)
		})
	}

	s.Dispose()
	if got := stopped.Load(); got != 3 {
		t.Fatalf("expected 3 stopped subscriptions, got %d", got)
	}
	if !s.Disposed() {
		t.Error("expected disposed set")
	}
	s.Dispose()
}

func TestParentCancellationPropagates(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	s := New(parent)
	cancel()

	select {
	case <-s.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("expected set context to be done")
	}
}
