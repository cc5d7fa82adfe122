package paymentplan

import (
	"context"
	"time"

	"bookingsystem/internal/app/dto"
	"bookingsystem/internal/app/handlers/holidays"
	"bookingsystem/internal/app/policies"
	"bookingsystem/internal/app/uow"
	domainbooking "bookingsystem/internal/domain/booking"
	"bookingsystem/internal/domain/calendar"
	domainplan "bookingsystem/internal/domain/paymentplan"
	"bookingsystem/internal/domain/shared/civil"
)

// Planner loads a booking with its holidays and paid periods and computes
// the rendered payment plan.
type Planner struct {
	Holidays    holidays.Calendar
	PaidPeriods policies.PaidPeriodStore
	Now         func() time.Time
}

func (p Planner) Build(ctx context.Context, unit uow.UnitOfWork, id domainbooking.BookingID) (dto.PaymentPlanDTO, error) {
	booking, err := unit.Bookings().ByID(ctx, id)
	if err != nil {
		return dto.PaymentPlanDTO{}, err
	}
	var hols calendar.HolidaySet
	if booking.Stay.ExcludeHolidays {
		if hols, err = p.Holidays.Within(ctx, unit.Holidays(), booking.Stay.Range); err != nil {
			return dto.PaymentPlanDTO{}, err
		}
	}
	var paid []int
	if p.PaidPeriods != nil {
		if paid, err = p.PaidPeriods.Get(ctx, id); err != nil {
			return dto.PaymentPlanDTO{}, err
		}
	}

	in := booking.PlanInput(hols, paid)
	plan := domainplan.Compute(in)
	return dto.PaymentPlanFromDomain(int64(id), in, plan, p.today()), nil
}

func (p Planner) today() civil.Date {
	if p.Now != nil {
		return civil.DateOf(p.Now())
	}
	return civil.Today()
}
