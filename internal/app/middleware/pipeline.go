package middleware

import (
	"context"
	"slices"

	"bookingsystem/internal/app/commands"
	"bookingsystem/internal/app/queries"
)

// CommandMiddleware decorates the command bus. The application stacks
// Logging, Validation, Idempotency, OutboxFlush and Transaction, in that order.
type CommandMiddleware func(next commands.Bus) commands.Bus

// QueryMiddleware decorates the query bus. Queries get logging and validation only.
type QueryMiddleware func(next queries.Bus) queries.Bus

// ChainCommands wraps base so that mws[0] sees a command first.
func ChainCommands(base commands.Bus, mws ...CommandMiddleware) commands.Bus {
	return chain(base, mws)
}

// ChainQueries wraps base so that mws[0] sees a query first.
func ChainQueries(base queries.Bus, mws ...QueryMiddleware) queries.Bus {
	return chain(base, mws)
}

func chain[B any, M ~func(B) B](base B, mws []M) B {
	for _, mw := range slices.Backward(mws) {
		base = mw(base)
	}
	return base
}

// keyed is the part of commands and queries the middleware reports on.
type keyed interface {
	Key() string
}

type commandFunc func(ctx context.Context, cmd commands.Command) (any, error)

func (f commandFunc) Dispatch(ctx context.Context, cmd commands.Command) (any, error) {
	return f(ctx, cmd)
}

type queryFunc func(ctx context.Context, query queries.Query) (any, error)

func (f queryFunc) Ask(ctx context.Context, q queries.Query) (any, error) {
	return f(ctx, q)
}
