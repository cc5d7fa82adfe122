package paymentplan_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookingsystem/internal/app/dto"
	"bookingsystem/internal/app/handlers/holidays"
	planapp "bookingsystem/internal/app/handlers/paymentplan"
	"bookingsystem/internal/app/uow"
	domainbooking "bookingsystem/internal/domain/booking"
	domainholiday "bookingsystem/internal/domain/holiday"
	"bookingsystem/internal/domain/shared/civil"
	"bookingsystem/internal/infra/storage/memory"
)

var fixedNow = func() time.Time { return time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC) }

type env struct {
	factory memory.Factory
	paid    *memory.PaidPeriodStore
	planner planapp.Planner
	id      domainbooking.BookingID
}

func setup(t *testing.T) env {
	t.Helper()
	ctx := context.Background()
	e := env{factory: memory.NewFactory(), paid: memory.NewPaidPeriodStore()}
	e.planner = planapp.Planner{Holidays: holidays.Calendar{}, PaidPeriods: e.paid, Now: fixedNow}

	details, err := domainbooking.Draft{
		CheckIn:            "2024-02-01",
		CheckOut:           "2024-02-15",
		PaymentPlan:        "weekly",
		ServiceFee:         "Yes",
		ExcludeBankHoliday: "Yes",
		Properties: []domainbooking.PropertyDraft{
			{Title: "Loft", NightPrice: "100", Deposit: "150"},
		},
	}.Normalize()
	require.NoError(t, err)

	e.id, err = e.factory.BookingRepo.NextID(ctx)
	require.NoError(t, err)
	require.NoError(t, e.factory.BookingRepo.Save(ctx, domainbooking.New(e.id, details, fixedNow())))
	_, err = e.factory.HolidayRepo.InsertBatch(ctx, []domainholiday.Holiday{
		{Date: civil.MustParseDate("2024-02-05")},
		{Date: civil.MustParseDate("2024-06-01")},
	})
	require.NoError(t, err)
	return e
}

func (e env) inUnit(t *testing.T) context.Context {
	t.Helper()
	unit, err := e.factory.Begin(context.Background(), uow.TxOptions{})
	require.NoError(t, err)
	return uow.ContextWithUnitOfWork(context.Background(), unit)
}

func TestGetPaymentPlanExcludesHolidays(t *testing.T) {
	e := setup(t)
	require.NoError(t, e.paid.Replace(context.Background(), e.id, []int{0}))

	h := &planapp.GetPaymentPlanHandler{UoWFactory: e.factory, Planner: e.planner}
	out, err := h.Handle(context.Background(), planapp.GetPaymentPlanQuery{BookingID: int64(e.id)})
	require.NoError(t, err)

	require.Len(t, out.Periods, 2)
	assert.Equal(t, 6, out.Periods[0].Nights)
	assert.Equal(t, 7, out.Periods[1].Nights)
	assert.True(t, out.Periods[0].Paid)
	assert.Equal(t, "2024-01-20", out.Today)

	require.Len(t, out.NoCancel.Rows, 2)
	assert.Equal(t, "600.00", out.NoCancel.Rows[0].FinalTotal)
	assert.Equal(t, "3.00", out.NoCancel.Rows[0].ServiceFee)
	assert.Equal(t, "700.00", out.NoCancel.Rows[1].FinalTotal)
	assert.Equal(t, "1456.50", out.NoCancel.Footer.GrandTotal)
	assert.False(t, out.ShowWithCancel)
}

func TestGetPaymentPlanUnknownBooking(t *testing.T) {
	e := setup(t)
	h := &planapp.GetPaymentPlanHandler{UoWFactory: e.factory, Planner: e.planner}
	_, err := h.Handle(context.Background(), planapp.GetPaymentPlanQuery{BookingID: 404})
	assert.ErrorIs(t, err, domainbooking.ErrBookingNotFound)
}

func TestMarkPaid(t *testing.T) {
	e := setup(t)
	h := &planapp.MarkPaidHandler{PaidPeriods: e.paid}

	res, err := h.Handle(e.inUnit(t), planapp.MarkPaidCommand{BookingID: int64(e.id), Periods: []int{1, 0, 1}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, res.PaidPeriods)

	_, err = h.Handle(e.inUnit(t), planapp.MarkPaidCommand{BookingID: int64(e.id), Periods: []int{2}})
	assert.ErrorIs(t, err, planapp.ErrPeriodOutOfRange)

	paid, err := e.paid.Get(context.Background(), e.id)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, paid)

	res, err = h.Handle(e.inUnit(t), planapp.MarkPaidCommand{BookingID: int64(e.id)})
	require.NoError(t, err)
	assert.Empty(t, res.PaidPeriods)
}

type capturingUploader struct {
	key  string
	body []byte
	err  error
}

func (u *capturingUploader) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.key = key
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	u.body = buf.Bytes()
	return "http://objects.local/exports/" + key, nil
}

func TestExportPaymentPlan(t *testing.T) {
	e := setup(t)
	up := &capturingUploader{}
	h := &planapp.ExportPaymentPlanHandler{Planner: e.planner, Uploader: up, Now: fixedNow}

	res, err := h.Handle(e.inUnit(t), planapp.ExportPaymentPlanCommand{BookingID: int64(e.id)})
	require.NoError(t, err)
	assert.Equal(t, "payment-plans/1/20240120T120000Z.json", res.ObjectKey)
	assert.Equal(t, up.key, res.ObjectKey)
	assert.Contains(t, res.URL, res.ObjectKey)

	var plan dto.PaymentPlanDTO
	require.NoError(t, json.Unmarshal(up.body, &plan))
	assert.Equal(t, int64(e.id), plan.BookingID)
	assert.Len(t, plan.Periods, 2)

	up.err = errors.New("bucket gone")
	_, err = h.Handle(e.inUnit(t), planapp.ExportPaymentPlanCommand{BookingID: int64(e.id)})
	assert.ErrorIs(t, err, up.err)

	_, err = (&planapp.ExportPaymentPlanHandler{Planner: e.planner}).Handle(e.inUnit(t), planapp.ExportPaymentPlanCommand{BookingID: int64(e.id)})
	assert.ErrorIs(t, err, planapp.ErrExportDisabled)
}
