package booking

import (
	"context"
	"log/slog"
	"time"

	"bookingsystem/internal/app/commands"
	"bookingsystem/internal/app/middleware"
	"bookingsystem/internal/app/outbox"
	"bookingsystem/internal/app/uow"
	domainbooking "bookingsystem/internal/domain/booking"
	"bookingsystem/internal/domain/shared/events"
)

const createBookingKey = "booking.create"

type CreateBookingCommand struct {
	Draft           domainbooking.Draft
	IdempotencyKeyV string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &CreateBookingResult{} }

type CreateBookingResult struct {
	BookingID int64 `json:"booking_id"`
}

type CreateBookingHandler struct {
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
	details, err := cmd.Draft.Normalize()
	if err != nil {
		return nil, err
	}
	unit, err := uow.Require(ctx)
	if err != nil {
		return nil, err
	}
	repo := unit.Bookings()

	id, err := repo.NextID(ctx)
	if err != nil {
		return nil, err
	}
	booking := domainbooking.New(id, details, clock(h.Now))
	if err := repo.Save(ctx, booking); err != nil {
		return nil, err
	}

	pending := booking.Drain()
	if err := outbox.RecordDomainEvents(ctx, unit.Outbox(), h.Encoder, pending); err != nil {
		return nil, err
	}
	logger(h.Logger).InfoContext(ctx, "booking created",
		"booking_id", id.String(),
		"properties", len(booking.Properties),
		"events", events.Names(pending),
	)
	return &CreateBookingResult{BookingID: int64(id)}, nil
}

func clock(now func() time.Time) time.Time {
	if now != nil {
		return now().UTC()
	}
	return time.Now().UTC()
}

func logger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}

var _ commands.Handler[CreateBookingCommand, *CreateBookingResult] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateBookingCommand)(nil)
