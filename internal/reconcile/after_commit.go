package reconcile

import (
	"context"
	"log/slog"
)

type callback struct {
	name string
	fn   func(ctx context.Context) error
}

// AfterCommit is an ordered list of side effects an operation registers
// while its transaction runs. They are invoked only after the commit
// succeeds; failures are logged and never reach the caller.
type AfterCommit struct {
	callbacks []callback
}

func (a *AfterCommit) Add(name string, fn func(ctx context.Context) error) {
	a.callbacks = append(a.callbacks, callback{name: name, fn: fn})
}

// Names lists registered callbacks in invocation order.
func (a *AfterCommit) Names() []string {
	names := make([]string, len(a.callbacks))
	for i, cb := range a.callbacks {
		names[i] = cb.name
	}
	return names
}

// Reset drops everything registered so far. Used when a transaction rolls
// back and may be retried.
func (a *AfterCommit) Reset() {
	a.callbacks = nil
}

// Run invokes the callbacks in order and returns how many failed.
func (a *AfterCommit) Run(ctx context.Context) int {
	failed := 0
	for _, cb := range a.callbacks {
		if err := cb.fn(ctx); err != nil {
			failed++
			slog.Error("post-commit action failed", "action", cb.name, "error", err)
		}
	}
	a.callbacks = nil
	return failed
}
