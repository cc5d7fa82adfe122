package paymentplan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bookingsystem/internal/app/commands"
	"bookingsystem/internal/app/policies"
	"bookingsystem/internal/app/uow"
	domainbooking "bookingsystem/internal/domain/booking"
	domainplan "bookingsystem/internal/domain/paymentplan"
)

const markPaidKey = "paymentplan.mark_paid"

var (
	ErrPeriodOutOfRange = errors.New("paymentplan: period index out of range")
	ErrPaidStoreMissing = errors.New("paymentplan: paid period store not configured")
)

// MarkPaidCommand replaces the set of periods already paid by the guest.
type MarkPaidCommand struct {
	BookingID int64 `validate:"gt=0"`
	Periods   []int `validate:"max=1000,dive,gte=0"`
}

func (c MarkPaidCommand) Key() string { return markPaidKey }

type MarkPaidResult struct {
	BookingID   int64 `json:"booking_id"`
	PaidPeriods []int `json:"paid_periods"`
}

type MarkPaidHandler struct {
	PaidPeriods policies.PaidPeriodStore
	Logger      *slog.Logger
}

func (h *MarkPaidHandler) Handle(ctx context.Context, cmd MarkPaidCommand) (*MarkPaidResult, error) {
	if h.PaidPeriods == nil {
		return nil, ErrPaidStoreMissing
	}
	unit, err := uow.Require(ctx)
	if err != nil {
		return nil, err
	}
	id := domainbooking.BookingID(cmd.BookingID)
	booking, err := unit.Bookings().ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count := len(domainplan.BuildPeriods(booking.Stay.Range.CheckIn, booking.Stay.Range.CheckOut, booking.Stay.Cadence))
	for _, idx := range cmd.Periods {
		if idx < 0 || idx >= count {
			return nil, fmt.Errorf("%w: %d of %d", ErrPeriodOutOfRange, idx, count)
		}
	}
	paid := domainplan.KeepPaid(cmd.Periods, count)
	store := h.PaidPeriods
	err = uow.AfterCommit(ctx, func(ctx context.Context) error {
		return store.Replace(ctx, id, paid)
	})
	if err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.InfoContext(ctx, "paid periods updated", "booking_id", id.String(), "paid_periods", paid)
	}
	return &MarkPaidResult{BookingID: cmd.BookingID, PaidPeriods: paid}, nil
}

var _ commands.Handler[MarkPaidCommand, *MarkPaidResult] = (*MarkPaidHandler)(nil)
