// Package worker bridges blocking backend calls onto a bounded pool of
// goroutines so that the MCP serving layer is never blocked longer than the
// per-call deadline.
package worker

import (
	"context"
	"errors"
	"fmt"

	"sentinelmcp/pkg/logging"

	"golang.org/x/sync/semaphore"
)

// ErrTimeout indicates a bridged call that exceeded its deadline. The caller
// is unblocked and told about the timeout; the abandoned backend call may
// keep executing remotely until it finishes on its own. That is a known
// limitation of the bridge: cancellation is best-effort only.
var ErrTimeout = errors.New("call exceeded its deadline")

// Pool is a bounded executor for blocking calls. The bound counts calls in
// flight, including abandoned ones that are still draining, so a flood of
// timed-out backend calls cannot pile up unbounded goroutines.
type Pool struct {
	sem *semaphore.Weighted
}

// New creates a pool allowing at most size concurrent calls. Sizes below one
// fall back to a single slot.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}
}

type outcome struct {
	value any
	err   error
}

// Submit runs fn on its own goroutine and awaits either its completion or the
// context deadline, whichever comes first. fn's error comes back as the
// awaited error, never as an unobserved background fault; panics inside fn
// are recovered into errors. On deadline the returned error wraps ErrTimeout.
//
// name identifies the call in logs when it is abandoned.
func (p *Pool) Submit(ctx context.Context, name string, fn func() (any, error)) (any, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %q timed out waiting for a worker slot", ErrTimeout, name)
		}
		return nil, err
	}

	// Buffered so the worker can complete after the caller has given up.
	done := make(chan outcome, 1)

	go func() {
		defer p.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic in %q: %v", name, r)}
			}
		}()
		value, err := fn()
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		logging.Warn("Worker", "Abandoning call %q: %v (the backend call may still be running)", name, ctx.Err())
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %q", ErrTimeout, name)
		}
		return nil, ctx.Err()
	}
}
