package uow

import (
	"context"
	"errors"
	"sync"
)

var ErrUnitOfWorkMissing = errors.New("uow: unit of work missing from context")

type ctxKey struct{}

// ContextWithUnitOfWork stores the provided unit of work in context.
func ContextWithUnitOfWork(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, ctxKey{}, unit)
}

// FromContext retrieves a unit of work from context if present.
func FromContext(ctx context.Context) (UnitOfWork, bool) {
	val := ctx.Value(ctxKey{})
	if val == nil {
		return nil, false
	}
	unit, ok := val.(UnitOfWork)
	return unit, ok
}

// Require is FromContext for handlers that only run behind the transaction middleware.
func Require(ctx context.Context) (UnitOfWork, error) {
	unit, ok := FromContext(ctx)
	if !ok {
		return nil, ErrUnitOfWorkMissing
	}
	return unit, nil
}

type hooksKey struct{}

type commitHooks struct {
	mu  sync.Mutex
	fns []func(context.Context) error
}

// WithCommitHooks prepares ctx to collect AfterCommit callbacks. The returned
// run func executes them in registration order and joins their errors; the
// transaction owner calls it only after a successful Commit.
func WithCommitHooks(ctx context.Context) (context.Context, func(context.Context) error) {
	hooks := &commitHooks{}
	run := func(ctx context.Context) error {
		hooks.mu.Lock()
		fns := hooks.fns
		hooks.fns = nil
		hooks.mu.Unlock()
		var errs []error
		for _, fn := range fns {
			if err := fn(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	return context.WithValue(ctx, hooksKey{}, hooks), run
}

// AfterCommit defers fn until the surrounding transaction commits. A rolled
// back transaction drops it. Without a transaction owner in ctx, fn runs now.
func AfterCommit(ctx context.Context, fn func(context.Context) error) error {
	hooks, ok := ctx.Value(hooksKey{}).(*commitHooks)
	if !ok {
		return fn(ctx)
	}
	hooks.mu.Lock()
	hooks.fns = append(hooks.fns, fn)
	hooks.mu.Unlock()
	return nil
}
