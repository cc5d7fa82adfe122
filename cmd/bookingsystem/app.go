package main

import (
	"log/slog"
	"time"

	"bookingsystem/internal/app/commands"
	bookingapp "bookingsystem/internal/app/handlers/booking"
	holidaysapp "bookingsystem/internal/app/handlers/holidays"
	paymentplanapp "bookingsystem/internal/app/handlers/paymentplan"
	"bookingsystem/internal/app/middleware"
	"bookingsystem/internal/app/outbox"
	"bookingsystem/internal/app/policies"
	"bookingsystem/internal/app/queries"
	"bookingsystem/internal/app/uow"
	ginserver "bookingsystem/internal/infra/http/gin"
	"bookingsystem/internal/infra/validation"
)

// dependencies are the adapters chosen at startup. HolidayCache and Uploader
// may be nil.
type dependencies struct {
	Factory      uow.UoWFactory
	Idempotency  middleware.IdempotencyStore
	PaidPeriods  policies.PaidPeriodStore
	HolidayCache policies.HolidayCache
	Uploader     policies.ExportUploader
	Flusher      outbox.Flusher
	Logger       *slog.Logger
	Now          func() time.Time
}

type application struct {
	commands commands.Bus
	queries  queries.Bus
	handlers ginserver.Handlers
	refresh  *holidaysapp.RefreshCacheJob
	sink     holidaysapp.CacheInvalidator
}

func buildApplication(deps dependencies) application {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	encoder := outbox.JSONEventEncoder{}
	calendar := holidaysapp.Calendar{Cache: deps.HolidayCache, Logger: logger}
	planner := paymentplanapp.Planner{Holidays: calendar, PaidPeriods: deps.PaidPeriods, Now: now}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.CreateBookingCommand{}.Key(), &bookingapp.CreateBookingHandler{
		Encoder: encoder, Logger: logger, Now: now,
	})
	commands.RegisterHandler(commandBus, bookingapp.UpdateBookingCommand{}.Key(), &bookingapp.UpdateBookingHandler{
		PaidPeriods: deps.PaidPeriods, Encoder: encoder, Logger: logger, Now: now,
	})
	commands.RegisterHandler(commandBus, bookingapp.DeleteBookingCommand{}.Key(), &bookingapp.DeleteBookingHandler{
		PaidPeriods: deps.PaidPeriods, Encoder: encoder, Logger: logger, Now: now,
	})
	commands.RegisterHandler(commandBus, holidaysapp.SyncHolidaysCommand{}.Key(), &holidaysapp.SyncHolidaysHandler{
		Calendar: calendar, Encoder: encoder, Logger: logger, Now: now,
	})
	commands.RegisterHandler(commandBus, paymentplanapp.MarkPaidCommand{}.Key(), &paymentplanapp.MarkPaidHandler{
		PaidPeriods: deps.PaidPeriods, Logger: logger,
	})
	commands.RegisterHandler(commandBus, paymentplanapp.ExportPaymentPlanCommand{}.Key(), &paymentplanapp.ExportPaymentPlanHandler{
		Planner: planner, Uploader: deps.Uploader, Logger: logger, Now: now,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, bookingapp.GetBookingQuery{}.Key(), &bookingapp.GetBookingHandler{
		UoWFactory: deps.Factory, PaidPeriods: deps.PaidPeriods,
	})
	queries.RegisterHandler(queryBus, bookingapp.ListBookingsQuery{}.Key(), &bookingapp.ListBookingsHandler{UoWFactory: deps.Factory})
	queries.RegisterHandler(queryBus, holidaysapp.ListHolidaysQuery{}.Key(), &holidaysapp.ListHolidaysHandler{
		UoWFactory: deps.Factory, Calendar: calendar,
	})
	queries.RegisterHandler(queryBus, paymentplanapp.GetPaymentPlanQuery{}.Key(), &paymentplanapp.GetPaymentPlanHandler{
		UoWFactory: deps.Factory, Planner: planner,
	})

	validator := validation.New()
	mws := []middleware.CommandMiddleware{
		middleware.Logging(logger),
		middleware.Validation(validator),
		middleware.Idempotency(deps.Idempotency, nil),
	}
	if deps.Flusher != nil {
		mws = append(mws, middleware.OutboxFlush(deps.Flusher, func(err error) {
			logger.Warn("outbox flush signal failed", "error", err)
		}))
	}
	mws = append(mws, middleware.Transaction(deps.Factory, nil))
	commandBusWithMiddleware := middleware.ChainCommands(commandBus, mws...)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus,
		middleware.QueryLogging(logger),
		middleware.QueryValidation(validator),
	)

	app := application{
		commands: commandBusWithMiddleware,
		queries:  queryBusWithMiddleware,
		handlers: ginserver.Handlers{
			Booking:     ginserver.BookingHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware, Logger: logger},
			PaymentPlan: ginserver.PaymentPlanHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware, Logger: logger},
			Holiday:     ginserver.HolidayHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware, Logger: logger},
		},
		sink: holidaysapp.CacheInvalidator{Cache: deps.HolidayCache},
	}
	if deps.HolidayCache != nil {
		app.refresh = &holidaysapp.RefreshCacheJob{UoWFactory: deps.Factory, Cache: deps.HolidayCache, Logger: logger}
	}
	return app
}
