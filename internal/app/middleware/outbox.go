package middleware

import (
	"context"

	"bookingsystem/internal/app/commands"
	"bookingsystem/internal/app/outbox"
)

// OutboxFlush signals the relay once a command succeeded. A failed signal does
// not fail the command: the records are committed and the relay polls anyway.
func OutboxFlush(flusher outbox.Flusher, onError func(error)) CommandMiddleware {
	if flusher == nil {
		panic("middleware: outbox flusher required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := next.Dispatch
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := nextFn(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := flusher.Flush(ctx); err != nil && onError != nil {
				onError(err)
			}
			return res, nil
		})
	}
}
