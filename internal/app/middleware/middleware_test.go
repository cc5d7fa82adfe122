package middleware_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookingsystem/internal/app/commands"
	"bookingsystem/internal/app/middleware"
	"bookingsystem/internal/app/outbox"
	"bookingsystem/internal/app/queries"
	"bookingsystem/internal/app/uow"
	"bookingsystem/internal/infra/storage/memory"
	"bookingsystem/internal/infra/validation"
)

type recordCommand struct {
	Name  string `validate:"required"`
	Fail  bool
	Token string
}

func (recordCommand) Key() string { return "test.record" }

func (c recordCommand) IdempotencyKey() string { return c.Token }

func (recordCommand) ResultPrototype() any { return &recordResult{} }

type recordResult struct {
	Calls int `json:"calls"`
}

type recordHandler struct {
	calls int
}

func (h *recordHandler) Handle(ctx context.Context, cmd recordCommand) (*recordResult, error) {
	h.calls++
	unit, err := uow.Require(ctx)
	if err != nil {
		return nil, err
	}
	if err := unit.Outbox().Add(ctx, outbox.EventRecord{ID: cmd.Name, Name: "test.recorded", Payload: []byte(`{}`)}); err != nil {
		return nil, err
	}
	if cmd.Fail {
		return nil, errors.New("handler failed")
	}
	return &recordResult{Calls: h.calls}, nil
}

type countingFlusher struct{ flushes int }

func (f *countingFlusher) Flush(context.Context) error {
	f.flushes++
	return nil
}

func newBus() (commands.Bus, *recordHandler, memory.Factory, *countingFlusher) {
	factory := memory.NewFactory()
	handler := &recordHandler{}
	flusher := &countingFlusher{}
	base := commands.NewInMemoryBus()
	commands.RegisterHandler(base, recordCommand{}.Key(), handler)
	bus := middleware.ChainCommands(base,
		middleware.Logging(nil),
		middleware.Validation(validation.New()),
		middleware.Idempotency(memory.NewIdempotencyStore(0), nil),
		middleware.OutboxFlush(flusher, nil),
		middleware.Transaction(factory, nil),
	)
	return bus, handler, factory, flusher
}

func TestTransactionCommitsOutboxRecords(t *testing.T) {
	bus, _, factory, flusher := newBus()
	_, err := bus.Dispatch(context.Background(), recordCommand{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"test.recorded"}, factory.OutboxStore.Pending())
	assert.Equal(t, 1, flusher.flushes)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	bus, _, factory, flusher := newBus()
	_, err := bus.Dispatch(context.Background(), recordCommand{Name: "a", Fail: true})
	require.Error(t, err)
	assert.Empty(t, factory.OutboxStore.Pending())
	assert.Zero(t, flusher.flushes)
}

func TestValidationRejectsBeforeHandler(t *testing.T) {
	bus, handler, _, _ := newBus()
	_, err := bus.Dispatch(context.Background(), recordCommand{})
	assert.ErrorIs(t, err, middleware.ErrInvalidMessage)
	assert.Zero(t, handler.calls)
}

func TestIdempotencyReplaysSuccessOnly(t *testing.T) {
	bus, handler, _, _ := newBus()
	ctx := context.Background()

	_, err := bus.Dispatch(ctx, recordCommand{Name: "a", Token: "t1", Fail: true})
	require.Error(t, err)

	first, err := commands.Dispatch[recordCommand, *recordResult](ctx, bus, recordCommand{Name: "a", Token: "t1"})
	require.NoError(t, err)
	second, err := commands.Dispatch[recordCommand, *recordResult](ctx, bus, recordCommand{Name: "a", Token: "t1"})
	require.NoError(t, err)

	assert.Equal(t, 2, handler.calls)
	assert.Equal(t, first.Calls, second.Calls)
}

func TestIdempotencyRejectsOversizedKey(t *testing.T) {
	bus, handler, _, _ := newBus()
	long := make([]byte, 1024)
	for i := range long {
		long[i] = 'k'
	}
	_, err := bus.Dispatch(context.Background(), recordCommand{Name: "a", Token: string(long)})
	assert.ErrorIs(t, err, middleware.ErrInvalidMessage)
	assert.Zero(t, handler.calls)
}

type hookCommand struct {
	Fail    bool
	HookErr error
}

func (hookCommand) Key() string { return "test.hook" }

type failingCommitFactory struct{ memory.Factory }

func (f failingCommitFactory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	unit, err := f.Factory.Begin(ctx, opts)
	if err != nil {
		return nil, err
	}
	return failingCommitUnit{unit}, nil
}

type failingCommitUnit struct{ uow.UnitOfWork }

func (failingCommitUnit) Commit(context.Context) error { return errors.New("disk full") }

func hookBus(factory uow.UoWFactory, ran *[]string) commands.Bus {
	base := commands.NewInMemoryBus()
	commands.RegisterHandler(base, hookCommand{}.Key(), commands.HandlerFunc[hookCommand, string](
		func(ctx context.Context, cmd hookCommand) (string, error) {
			err := uow.AfterCommit(ctx, func(context.Context) error {
				*ran = append(*ran, "hook")
				return cmd.HookErr
			})
			if err != nil {
				return "", err
			}
			*ran = append(*ran, "handler")
			if cmd.Fail {
				return "", errors.New("handler failed")
			}
			return "ok", nil
		}))
	return middleware.ChainCommands(base, middleware.Transaction(factory, nil))
}

func TestAfterCommitHooksRunOnlyOnCommit(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		factory uow.UoWFactory
		cmd     hookCommand
		wantErr error
		wantRan []string
	}{
		{name: "committed", factory: memory.NewFactory(), wantRan: []string{"handler", "hook"}},
		{name: "handler error", factory: memory.NewFactory(), cmd: hookCommand{Fail: true}, wantRan: []string{"handler"}},
		{name: "commit error", factory: failingCommitFactory{memory.NewFactory()}, wantErr: middleware.ErrCommitFailed, wantRan: []string{"handler"}},
		{name: "hook error", factory: memory.NewFactory(), cmd: hookCommand{HookErr: errors.New("redis down")}, wantErr: middleware.ErrAfterCommit, wantRan: []string{"handler", "hook"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ran []string
			_, err := hookBus(tt.factory, &ran).Dispatch(ctx, tt.cmd)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.cmd.Fail:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantRan, ran)
		})
	}
}

func TestAfterCommitRunsImmediatelyWithoutTransaction(t *testing.T) {
	called := false
	err := uow.AfterCommit(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

type pingQuery struct{}

func (pingQuery) Key() string { return "test.ping" }

type validatorFunc func(ctx context.Context, message any) error

func (f validatorFunc) Validate(ctx context.Context, message any) error { return f(ctx, message) }

func TestChainQueriesAppliesFirstMiddlewareOutermost(t *testing.T) {
	var order []string
	tag := func(name string) middleware.QueryMiddleware {
		return func(next queries.Bus) queries.Bus {
			return queryBusFunc(func(ctx context.Context, q queries.Query) (any, error) {
				order = append(order, name)
				return next.Ask(ctx, q)
			})
		}
	}
	base := queries.NewInMemoryBus()
	queries.RegisterHandler(base, pingQuery{}.Key(), queries.HandlerFunc[pingQuery, string](
		func(context.Context, pingQuery) (string, error) {
			order = append(order, "handler")
			return "pong", nil
		}))

	got, err := queries.Ask[pingQuery, string](context.Background(), middleware.ChainQueries(base, tag("outer"), tag("inner")), pingQuery{})
	require.NoError(t, err)
	assert.Equal(t, "pong", got)
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestQueryValidationMarksForeignErrorsInvalid(t *testing.T) {
	base := queries.NewInMemoryBus()
	queries.RegisterHandler(base, pingQuery{}.Key(), queries.HandlerFunc[pingQuery, string](
		func(context.Context, pingQuery) (string, error) { return "pong", nil }))
	reject := validatorFunc(func(context.Context, any) error { return errors.New("too many dates") })

	_, err := middleware.ChainQueries(base, middleware.QueryValidation(reject)).Ask(context.Background(), pingQuery{})
	assert.ErrorIs(t, err, middleware.ErrInvalidMessage)
	assert.ErrorContains(t, err, "test.ping: too many dates")
}

type queryBusFunc func(ctx context.Context, q queries.Query) (any, error)

func (f queryBusFunc) Ask(ctx context.Context, q queries.Query) (any, error) { return f(ctx, q) }
