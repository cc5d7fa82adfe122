package booking

import (
	"context"

	"bookingsystem/internal/app/dto"
	"bookingsystem/internal/app/handlers/support"
	"bookingsystem/internal/app/policies"
	"bookingsystem/internal/app/queries"
	"bookingsystem/internal/app/uow"
	domainbooking "bookingsystem/internal/domain/booking"
)

const (
	getBookingKey   = "booking.get"
	listBookingsKey = "booking.list"
)

type GetBookingQuery struct {
	BookingID int64 `validate:"gt=0"`
}

func (q GetBookingQuery) Key() string { return getBookingKey }

type GetBookingHandler struct {
	UoWFactory  uow.UoWFactory
	PaidPeriods policies.PaidPeriodStore
}

func (h *GetBookingHandler) Handle(ctx context.Context, q GetBookingQuery) (dto.BookingDTO, error) {
	return support.WithReadOnlyUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) (dto.BookingDTO, error) {
		id := domainbooking.BookingID(q.BookingID)
		booking, err := unit.Bookings().ByID(ctx, id)
		if err != nil {
			return dto.BookingDTO{}, err
		}
		var paid []int
		if h.PaidPeriods != nil {
			if paid, err = h.PaidPeriods.Get(ctx, id); err != nil {
				return dto.BookingDTO{}, err
			}
		}
		return dto.BookingFromDomain(booking, paid), nil
	})
}

type ListBookingsQuery struct{}

func (ListBookingsQuery) Key() string { return listBookingsKey }

type ListBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListBookingsHandler) Handle(ctx context.Context, _ ListBookingsQuery) (dto.BookingCollection, error) {
	return support.WithReadOnlyUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) (dto.BookingCollection, error) {
		summaries, err := unit.Bookings().List(ctx)
		if err != nil {
			return dto.BookingCollection{}, err
		}
		items := make([]dto.BookingSummaryDTO, 0, len(summaries))
		for _, s := range summaries {
			items = append(items, dto.BookingSummaryFromDomain(s))
		}
		return dto.BookingCollection{Items: items}, nil
	})
}

var _ queries.Handler[GetBookingQuery, dto.BookingDTO] = (*GetBookingHandler)(nil)
var _ queries.Handler[ListBookingsQuery, dto.BookingCollection] = (*ListBookingsHandler)(nil)
