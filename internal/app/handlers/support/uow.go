package support

import (
	"context"

	"bookingsystem/internal/app/uow"
)

// BeginReadOnlyUnit reuses the unit already in ctx or opens a read-only one.
// The returned cleanup is nil when the unit was reused.
func BeginReadOnlyUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, func(), error) {
	unit, ok := uow.FromContext(ctx)
	if ok {
		return unit, ctx, nil, nil
	}
	if factory == nil {
		return nil, ctx, nil, uow.ErrUnitOfWorkMissing
	}
	newUnit, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, ctx, nil, err
	}
	execCtx := uow.ContextWithUnitOfWork(ctx, newUnit)
	cleanup := func() {
		_ = newUnit.Rollback(execCtx)
	}
	return newUnit, execCtx, cleanup, nil
}

// WithReadOnlyUnit runs fn inside a read-only unit and always releases it.
func WithReadOnlyUnit[R any](ctx context.Context, factory uow.UoWFactory, fn func(context.Context, uow.UnitOfWork) (R, error)) (R, error) {
	unit, execCtx, cleanup, err := BeginReadOnlyUnit(ctx, factory)
	if err != nil {
		var zero R
		return zero, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return fn(execCtx, unit)
}
