package paymentplan

import (
	"context"

	"bookingsystem/internal/app/dto"
	"bookingsystem/internal/app/handlers/support"
	"bookingsystem/internal/app/queries"
	"bookingsystem/internal/app/uow"
	domainbooking "bookingsystem/internal/domain/booking"
)

const getPaymentPlanKey = "paymentplan.get"

type GetPaymentPlanQuery struct {
	BookingID int64 `validate:"gt=0"`
}

func (q GetPaymentPlanQuery) Key() string { return getPaymentPlanKey }

type GetPaymentPlanHandler struct {
	UoWFactory uow.UoWFactory
	Planner    Planner
}

func (h *GetPaymentPlanHandler) Handle(ctx context.Context, q GetPaymentPlanQuery) (dto.PaymentPlanDTO, error) {
	return support.WithReadOnlyUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) (dto.PaymentPlanDTO, error) {
		return h.Planner.Build(ctx, unit, domainbooking.BookingID(q.BookingID))
	})
}

var _ queries.Handler[GetPaymentPlanQuery, dto.PaymentPlanDTO] = (*GetPaymentPlanHandler)(nil)
