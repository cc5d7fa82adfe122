package booking

import (
	"context"
	"log/slog"
	"time"

	"bookingsystem/internal/app/commands"
	"bookingsystem/internal/app/outbox"
	"bookingsystem/internal/app/policies"
	"bookingsystem/internal/app/uow"
	domainbooking "bookingsystem/internal/domain/booking"
)

const deleteBookingKey = "booking.delete"

type DeleteBookingCommand struct {
	BookingID int64 `validate:"gt=0"`
}

func (c DeleteBookingCommand) Key() string { return deleteBookingKey }

type DeleteBookingHandler struct {
	PaidPeriods policies.PaidPeriodStore
	Encoder     outbox.EventEncoder
	Logger      *slog.Logger
	Now         func() time.Time
}

func (h *DeleteBookingHandler) Handle(ctx context.Context, cmd DeleteBookingCommand) (struct{}, error) {
	unit, err := uow.Require(ctx)
	if err != nil {
		return struct{}{}, err
	}
	repo := unit.Bookings()
	id := domainbooking.BookingID(cmd.BookingID)

	booking, err := repo.ByID(ctx, id)
	if err != nil {
		return struct{}{}, err
	}
	booking.MarkDeleted(clock(h.Now))
	if err := repo.Delete(ctx, id); err != nil {
		return struct{}{}, err
	}
	if err := outbox.RecordDomainEvents(ctx, unit.Outbox(), h.Encoder, booking.Drain()); err != nil {
		return struct{}{}, err
	}
	if h.PaidPeriods != nil {
		store, log := h.PaidPeriods, logger(h.Logger)
		_ = uow.AfterCommit(ctx, func(ctx context.Context) error {
			if err := store.Clear(ctx, id); err != nil {
				log.WarnContext(ctx, "clear paid periods failed", "booking_id", id.String(), "error", err)
			}
			return nil
		})
	}
	logger(h.Logger).InfoContext(ctx, "booking deleted", "booking_id", id.String())
	return struct{}{}, nil
}

var _ commands.Handler[DeleteBookingCommand, struct{}] = (*DeleteBookingHandler)(nil)
