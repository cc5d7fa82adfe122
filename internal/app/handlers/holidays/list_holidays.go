package holidays

import (
	"context"

	"bookingsystem/internal/app/dto"
	"bookingsystem/internal/app/handlers/support"
	"bookingsystem/internal/app/queries"
	"bookingsystem/internal/app/uow"
)

const ListHolidaysKey = "holidays.list"

type ListHolidaysQuery struct{}

func (ListHolidaysQuery) Key() string { return ListHolidaysKey }

type ListHolidaysHandler struct {
	UoWFactory uow.UoWFactory
	Calendar   Calendar
}

func (h *ListHolidaysHandler) Handle(ctx context.Context, _ ListHolidaysQuery) (dto.HolidayCollection, error) {
	return support.WithReadOnlyUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) (dto.HolidayCollection, error) {
		dates, err := h.Calendar.All(ctx, unit.Holidays())
		if err != nil {
			return dto.HolidayCollection{}, err
		}
		return dto.HolidaysFromDates(dates), nil
	})
}

var _ queries.Handler[ListHolidaysQuery, dto.HolidayCollection] = (*ListHolidaysHandler)(nil)
