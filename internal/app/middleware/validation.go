package middleware

import (
	"context"
	"errors"
	"fmt"

	"bookingsystem/internal/app/commands"
	"bookingsystem/internal/app/queries"
)

// ErrInvalidMessage marks a command or query rejected before reaching its handler.
var ErrInvalidMessage = errors.New("middleware: invalid message")

type Validator interface {
	Validate(ctx context.Context, message any) error
}

// Validation rejects malformed commands before idempotency lookups or a
// transaction are spent on them.
func Validation(v Validator) CommandMiddleware {
	check := validateWith(v)
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := check(ctx, cmd); err != nil {
				return nil, err
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}

func QueryValidation(v Validator) QueryMiddleware {
	check := validateWith(v)
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := check(ctx, q); err != nil {
				return nil, err
			}
			return next.Ask(ctx, q)
		})
	}
}

// validateWith makes sure every rejection matches ErrInvalidMessage so the
// HTTP layer can answer 400 whatever validator is plugged in.
func validateWith(v Validator) func(context.Context, keyed) error {
	if v == nil {
		panic("middleware: validator required")
	}
	return func(ctx context.Context, msg keyed) error {
		err := v.Validate(ctx, msg)
		if err == nil || errors.Is(err, ErrInvalidMessage) {
			return err
		}
		return fmt.Errorf("%w: %s: %w", ErrInvalidMessage, msg.Key(), err)
	}
}
