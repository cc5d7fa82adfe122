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
	"bookingsystem/internal/domain/paymentplan"
)

const updateBookingKey = "booking.update"

// UpdateBookingCommand replaces a booking and its whole property set.
// PaidPeriods is applied only when ReplacePaid is set.
type UpdateBookingCommand struct {
	BookingID   int64 `validate:"gt=0"`
	Draft       domainbooking.Draft
	PaidPeriods []int `validate:"omitempty,max=1000,dive,gte=0"`
	ReplacePaid bool
}

func (c UpdateBookingCommand) Key() string { return updateBookingKey }

type UpdateBookingResult struct {
	BookingID   int64 `json:"booking_id"`
	PaidPeriods []int `json:"paid_periods"`
}

type UpdateBookingHandler struct {
	PaidPeriods policies.PaidPeriodStore
	Encoder     outbox.EventEncoder
	Logger      *slog.Logger
	Now         func() time.Time
}

func (h *UpdateBookingHandler) Handle(ctx context.Context, cmd UpdateBookingCommand) (*UpdateBookingResult, error) {
	details, err := cmd.Draft.Normalize()
	if err != nil {
		return nil, err
	}
	unit, err := uow.Require(ctx)
	if err != nil {
		return nil, err
	}
	repo := unit.Bookings()
	id := domainbooking.BookingID(cmd.BookingID)

	booking, err := repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	booking.Replace(details, clock(h.Now))
	if err := repo.Save(ctx, booking); err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, unit.Outbox(), h.Encoder, booking.Drain()); err != nil {
		return nil, err
	}

	result := &UpdateBookingResult{BookingID: cmd.BookingID, PaidPeriods: []int{}}
	if h.PaidPeriods != nil {
		var paid []int
		if cmd.ReplacePaid {
			paid = cmd.PaidPeriods
		} else if paid, err = h.PaidPeriods.Get(ctx, id); err != nil {
			return nil, err
		}
		// A shorter stay may drop periods that were marked paid.
		periods := paymentplan.BuildPeriods(booking.Stay.Range.CheckIn, booking.Stay.Range.CheckOut, booking.Stay.Cadence)
		kept := paymentplan.KeepPaid(paid, len(periods))
		if cmd.ReplacePaid || len(kept) != len(paid) {
			store := h.PaidPeriods
			err := uow.AfterCommit(ctx, func(ctx context.Context) error {
				return store.Replace(ctx, id, kept)
			})
			if err != nil {
				return nil, err
			}
		}
		result.PaidPeriods = kept
	}
	logger(h.Logger).InfoContext(ctx, "booking updated", "booking_id", id.String(), "paid_periods", result.PaidPeriods)
	return result, nil
}

var _ commands.Handler[UpdateBookingCommand, *UpdateBookingResult] = (*UpdateBookingHandler)(nil)
