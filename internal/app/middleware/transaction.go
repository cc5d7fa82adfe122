package middleware

import (
	"context"
	"errors"
	"fmt"

	"bookingsystem/internal/app/commands"
	"bookingsystem/internal/app/uow"
)

var (
	ErrCommitFailed = errors.New("middleware: commit failed")
	// ErrAfterCommit reports a post-commit effect that failed. The unit's
	// writes are already durable when it is returned.
	ErrAfterCommit = errors.New("middleware: after-commit effect failed")
)

type TxOptionsProvider func(cmd commands.Command) uow.TxOptions

// Transaction runs the command inside a unit of work that is committed on
// success and rolled back on error or panic. Effects registered with
// uow.AfterCommit run only once Commit has succeeded.
func Transaction(factory uow.UoWFactory, optsProvider TxOptionsProvider) CommandMiddleware {
	if factory == nil {
		panic("middleware: uow factory required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := next.Dispatch
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if _, ok := uow.FromContext(ctx); ok {
				return nextFn(ctx, cmd)
			}
			opts := uow.TxOptions{}
			if optsProvider != nil {
				opts = optsProvider(cmd)
			}
			unit, err := factory.Begin(ctx, opts)
			if err != nil {
				return nil, err
			}
			hookCtx, runHooks := uow.WithCommitHooks(ctx)
			execCtx := uow.ContextWithUnitOfWork(hookCtx, unit)
			committed := false
			defer func() {
				if !committed {
					_ = unit.Rollback(execCtx)
				}
			}()

			res, err := nextFn(execCtx, cmd)
			if err != nil {
				return nil, err
			}
			if err := unit.Commit(execCtx); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrCommitFailed, err)
			}
			committed = true
			if err := runHooks(ctx); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrAfterCommit, err)
			}
			return res, nil
		})
	}
}
