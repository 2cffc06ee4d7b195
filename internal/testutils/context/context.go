package context

import (
	"context"
	"testing"
	"time"
)

// WithTest derives a context which is done before the test times out.
//
// The deadline is 1 second before the test's deadline, to leave time for clean-up.
// The context is cancelled when the test ends.
func WithTest(t *testing.T) context.Context {
	t.Helper()
	deadline, ok := t.Deadline()
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		t.Cleanup(cancel)
		return ctx
	}
	ctx, cancel := context.WithDeadline(context.Background(), deadline.Add(-time.Second))
	t.Cleanup(cancel)
	return ctx
}
