package paymentplan_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookingsystem/internal/domain/calendar"
	"bookingsystem/internal/domain/paymentplan"
	"bookingsystem/internal/domain/shared/civil"
	"bookingsystem/internal/domain/shared/daterange"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %s, got %s", want, got.String())
}

func cancelledOn(notification, cancellation string) paymentplan.Cancellation {
	c := paymentplan.Cancellation{}
	if notification != "" {
		c.NotificationDate = civil.Some(d(notification))
	}
	if cancellation != "" {
		c.CancellationDate = civil.Some(d(cancellation))
	}
	return c
}

func TestEffectiveCancelEnd(t *testing.T) {
	tests := []struct {
		name         string
		property     paymentplan.Property
		cancellation paymentplan.Cancellation
		want         string
	}{
		{
			name:         "not cancelled",
			property:     paymentplan.Property{NotifyDay: 10},
			cancellation: cancelledOn("2024-01-05", "2024-01-06"),
		},
		{
			name:         "no cancellation date",
			property:     paymentplan.Property{IsCancelled: true, NotifyDay: 10},
			cancellation: cancelledOn("2024-01-05", ""),
		},
		{
			name:         "notice shortfall extends the cutoff",
			property:     paymentplan.Property{IsCancelled: true, NotifyDay: 10},
			cancellation: cancelledOn("2024-01-05", "2024-01-06"),
			want:         "2024-01-15",
		},
		{
			name:         "enough notice",
			property:     paymentplan.Property{IsCancelled: true, NotifyDay: 10},
			cancellation: cancelledOn("2023-12-01", "2024-01-06"),
			want:         "2024-01-06",
		},
		{
			name:         "no notification date owes the whole window",
			property:     paymentplan.Property{IsCancelled: true, NotifyDay: 4},
			cancellation: cancelledOn("", "2024-01-06"),
			want:         "2024-01-10",
		},
		{
			name:         "notification after cancellation counts as no notice",
			property:     paymentplan.Property{IsCancelled: true, NotifyDay: 3},
			cancellation: cancelledOn("2024-01-10", "2024-01-06"),
			want:         "2024-01-09",
		},
		{
			name:         "zero notify day",
			property:     paymentplan.Property{IsCancelled: true},
			cancellation: cancelledOn("2024-01-05", "2024-01-06"),
			want:         "2024-01-06",
		},
		{
			name:         "earlier own checkout wins",
			property:     paymentplan.Property{IsCancelled: true, NotifyDay: 5, OwnCheckout: civil.Some(d("2024-01-04"))},
			cancellation: cancelledOn("2024-01-01", "2024-01-06"),
			want:         "2024-01-06",
		},
		{
			name:         "later own checkout is ignored",
			property:     paymentplan.Property{IsCancelled: true, OwnCheckout: civil.Some(d("2024-01-12"))},
			cancellation: cancelledOn("", "2024-01-06"),
			want:         "2024-01-06",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paymentplan.EffectiveCancelEnd(tt.property, tt.cancellation)
			if tt.want == "" {
				assert.False(t, got.Valid)
				return
			}
			require.True(t, got.Valid)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func twoProperties() []paymentplan.Property {
	return []paymentplan.Property{
		{Title: "Loft", NightPrice: dec("100"), Deposit: dec("200"), IsCancelled: true},
		{Title: "Studio", NightPrice: dec("50"), Deposit: dec("100")},
	}
}

func TestNoCancelTotals(t *testing.T) {
	periods := paymentplan.BuildPeriods(d("2024-01-01"), d("2024-01-15"), paymentplan.Weekly)
	rows := paymentplan.NoCancelTotals(periods, twoProperties(), true, calendar.Rules{}, dec("300"))

	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, 7, row.Nights)
		assert.Equal(t, []int{7, 7}, row.PropertyNights)
		assertMoney(t, "1050", row.FinalTotal)
		assertMoney(t, "7", row.ServiceFee)
	}
	assertMoney(t, "300", rows[0].Deposit)
	assertMoney(t, "0", rows[1].Deposit)

	withoutFee := paymentplan.NoCancelTotals(periods, twoProperties(), false, calendar.Rules{}, dec("300"))
	assertMoney(t, "0", withoutFee[0].ServiceFee)
}

func TestWithCancelTotals(t *testing.T) {
	periods := paymentplan.BuildPeriods(d("2024-01-01"), d("2024-01-15"), paymentplan.Weekly)
	cancellation := cancelledOn("", "2024-01-10")

	rows := paymentplan.WithCancelTotals(periods, twoProperties(), true, calendar.Rules{}, dec("300"), cancellation)

	require.Len(t, rows, 2)
	assert.Equal(t, []int{7, 7}, rows[0].PropertyNights)
	assertMoney(t, "1050", rows[0].FinalTotal)
	assertMoney(t, "300", rows[0].Deposit)

	assert.Equal(t, []int{2, 7}, rows[1].PropertyNights)
	assertMoney(t, "550", rows[1].FinalTotal)
	assertMoney(t, "4.5", rows[1].ServiceFee)

	assert.Empty(t, paymentplan.WithCancelTotals(periods, twoProperties(), true, calendar.Rules{}, dec("300"), paymentplan.Cancellation{}))
}

func TestWithCancelCutoffBeforePeriodBillsNothing(t *testing.T) {
	periods := paymentplan.BuildPeriods(d("2024-01-01"), d("2024-01-22"), paymentplan.Weekly)
	props := []paymentplan.Property{{Title: "Loft", NightPrice: dec("80"), IsCancelled: true}}

	rows := paymentplan.WithCancelTotals(periods, props, false, calendar.Rules{}, decimal.Zero, cancelledOn("", "2024-01-03"))

	require.Len(t, rows, 3)
	assert.Equal(t, []int{2}, rows[0].PropertyNights)
	assert.Equal(t, []int{0}, rows[1].PropertyNights)
	assert.Equal(t, []int{0}, rows[2].PropertyNights)
	assertMoney(t, "0", rows[2].FinalTotal)
}

func TestWithCancelNeverExceedsNoCancel(t *testing.T) {
	rules := calendar.Rules{
		Weekdays: calendar.NewWeekdaySet(calendar.Mon, calendar.Tue, calendar.Thu, calendar.Sat),
		Holidays: calendar.NewHolidaySet(d("2024-02-12"), d("2024-03-01")),
	}
	checkIn, checkOut := d("2024-01-20"), d("2024-04-02")
	props := []paymentplan.Property{
		{Title: "A", NightPrice: dec("90"), IsCancelled: true, NotifyDay: 7},
		{Title: "B", NightPrice: dec("60"), IsCancelled: true, OwnCheckout: civil.Some(d("2024-02-20"))},
		{Title: "C", NightPrice: dec("40")},
	}

	for _, cadence := range []paymentplan.Cadence{paymentplan.Weekly, paymentplan.Fortnightly, paymentplan.Monthly, paymentplan.Full} {
		periods := paymentplan.BuildPeriods(checkIn, checkOut, cadence)
		noCancel := paymentplan.NoCancelTotals(periods, props, true, rules, decimal.Zero)
		for offset := -10; offset < 90; offset += 3 {
			cancellation := paymentplan.Cancellation{
				NotificationDate: civil.Some(checkIn.AddDays(offset - 2)),
				CancellationDate: civil.Some(checkIn.AddDays(offset)),
			}
			withCancel := paymentplan.WithCancelTotals(periods, props, true, rules, decimal.Zero, cancellation)
			require.Len(t, withCancel, len(noCancel))
			for i := range withCancel {
				for j := range props {
					assert.LessOrEqual(t, withCancel[i].PropertyNights[j], noCancel[i].PropertyNights[j],
						"cadence %s offset %d period %d property %d", cadence, offset, i, j)
				}
				assert.True(t, withCancel[i].FinalTotal.LessThanOrEqual(noCancel[i].FinalTotal))
			}
		}
	}
}

func TestDepositOnlyOnFirstPeriod(t *testing.T) {
	for _, cadence := range []paymentplan.Cadence{paymentplan.Weekly, paymentplan.Fortnightly, paymentplan.Monthly, paymentplan.Full} {
		periods := paymentplan.BuildPeriods(d("2024-01-05"), d("2024-05-09"), cadence)
		cancellation := cancelledOn("", "2024-02-01")
		for _, rows := range [][]paymentplan.PeriodTotals{
			paymentplan.NoCancelTotals(periods, twoProperties(), true, calendar.Rules{}, dec("300")),
			paymentplan.WithCancelTotals(periods, twoProperties(), true, calendar.Rules{}, dec("300"), cancellation),
		} {
			assertMoney(t, "300", paymentplan.SumTotals(rows).Deposit)
			for i, row := range rows[1:] {
				assert.True(t, row.Deposit.IsZero(), "%s period %d", cadence, i+1)
			}
		}
	}
}

func TestHostRefunds(t *testing.T) {
	periods := paymentplan.BuildPeriods(d("2024-01-01"), d("2024-01-15"), paymentplan.Weekly)
	checkOut := d("2024-01-15")
	cancellation := cancelledOn("", "2024-01-10")

	refund := paymentplan.HostRefunds(twoProperties(), periods, []int{0, 1}, true, calendar.Rules{}, checkOut, cancellation)
	require.Len(t, refund.Rows, 1)
	assert.Equal(t, "Loft", refund.Rows[0].Title)
	assert.Equal(t, 5, refund.Rows[0].CancelledNights)
	assertMoney(t, "500", refund.Rows[0].FinalTotal)
	assertMoney(t, "2.5", refund.Rows[0].ServiceFee)
	assertMoney(t, "500", refund.Totals.FinalTotal)
	assertMoney(t, "2.5", refund.Totals.ServiceFee)

	unpaid := paymentplan.HostRefunds(twoProperties(), periods, []int{0}, true, calendar.Rules{}, checkOut, cancellation)
	assert.True(t, unpaid.Empty(), "cancelled nights fall in an unpaid period only")

	noFee := paymentplan.HostRefunds(twoProperties(), periods, []int{1}, false, calendar.Rules{}, checkOut, cancellation)
	require.Len(t, noFee.Rows, 1)
	assertMoney(t, "0", noFee.Rows[0].ServiceFee)
}

func TestHostRefundsSkipsCutoffAtOrAfterCheckout(t *testing.T) {
	periods := paymentplan.BuildPeriods(d("2024-01-01"), d("2024-01-15"), paymentplan.Weekly)
	props := []paymentplan.Property{{Title: "Loft", NightPrice: dec("100"), IsCancelled: true, NotifyDay: 20}}

	refund := paymentplan.HostRefunds(props, periods, []int{0, 1}, true, calendar.Rules{}, d("2024-01-15"), cancelledOn("", "2024-01-03"))
	assert.True(t, refund.Empty())
}

func TestRefundShrinksWhenPaidPeriodsAreRemoved(t *testing.T) {
	rules := calendar.Rules{Weekdays: calendar.NewWeekdaySet(calendar.Mon, calendar.Wed, calendar.Fri, calendar.Sun)}
	periods := paymentplan.BuildPeriods(d("2024-01-01"), d("2024-03-01"), paymentplan.Weekly)
	props := []paymentplan.Property{
		{Title: "A", NightPrice: dec("75"), IsCancelled: true, NotifyDay: 3},
		{Title: "B", NightPrice: dec("120"), IsCancelled: true, OwnCheckout: civil.Some(d("2024-01-20"))},
	}
	cancellation := cancelledOn("2024-01-25", "2024-01-28")

	paid := make([]int, len(periods))
	for i := range periods {
		paid[i] = i
	}
	total := func(paid []int) decimal.Decimal {
		r := paymentplan.HostRefunds(props, periods, paid, true, rules, d("2024-03-01"), cancellation)
		return r.Totals.FinalTotal.Add(r.Totals.ServiceFee)
	}

	previous := total(paid)
	assert.True(t, previous.IsPositive())
	for len(paid) > 0 {
		paid = paid[1:]
		current := total(paid)
		assert.True(t, current.LessThanOrEqual(previous), "removing a paid period increased the refund")
		previous = current
	}
	assert.True(t, paymentplan.HostRefunds(props, periods, nil, true, rules, d("2024-03-01"), cancellation).Empty())
}

func scenarioInput(weekdays calendar.WeekdaySet) paymentplan.Input {
	return paymentplan.Input{
		Stay:    daterange.DateRange{CheckIn: d("2024-01-01"), CheckOut: d("2024-01-15")},
		Cadence: paymentplan.Weekly,
		Rules:   calendar.Rules{Weekdays: weekdays},
	}
}

func TestScenarioWeeklyStay(t *testing.T) {
	plan := paymentplan.Compute(scenarioInput(calendar.WeekdaySet{}))

	assert.Equal(t, [][2]string{{"2024-01-01", "2024-01-08"}, {"2024-01-08", "2024-01-15"}}, spans(plan.Periods))
	require.Len(t, plan.NoCancel, 2)
	assert.Equal(t, 7, plan.NoCancel[0].Nights)
	assert.Equal(t, 7, plan.NoCancel[1].Nights)
}

func TestScenarioWorkingDaysOnly(t *testing.T) {
	weekdays := calendar.ParseWeekdays([]string{"mon", "tue", "wed", "thu", "fri"})
	plan := paymentplan.Compute(scenarioInput(weekdays))

	require.Len(t, plan.NoCancel, 2)
	assert.Equal(t, 5, plan.NoCancel[0].Nights)
	assert.Equal(t, 5, plan.NoCancel[1].Nights)
}

func TestScenarioNoticeShortfallBillsWholeStay(t *testing.T) {
	in := scenarioInput(calendar.WeekdaySet{})
	in.ServiceFee = true
	in.Properties = []paymentplan.Property{{Title: "Loft", NightPrice: dec("100"), IsCancelled: true, NotifyDay: 10}}
	in.Cancellation = cancelledOn("2024-01-05", "2024-01-06")
	in.PaidPeriods = []int{0, 1}

	plan := paymentplan.Compute(in)

	assert.True(t, plan.ShowWithCancel)
	require.Len(t, plan.WithCancel, len(plan.NoCancel))
	for i := range plan.NoCancel {
		assert.Equal(t, plan.NoCancel[i].PropertyNights, plan.WithCancel[i].PropertyNights)
		assertMoney(t, plan.NoCancel[i].FinalTotal.String(), plan.WithCancel[i].FinalTotal)
	}
	assertMoney(t, "1400", plan.WithCancelSum.FinalTotal)
	assert.True(t, plan.HostRefund.Empty(), "cutoff falls on checkout")
}

func TestScenarioNothingPaidMeansNoRefund(t *testing.T) {
	in := scenarioInput(calendar.WeekdaySet{})
	in.Properties = []paymentplan.Property{{Title: "Loft", NightPrice: dec("100"), IsCancelled: true, NotifyDay: 10}}
	in.Cancellation = cancelledOn("2024-01-05", "2024-01-06")

	for _, cancellation := range []paymentplan.Cancellation{in.Cancellation, cancelledOn("2023-12-01", "2024-01-03")} {
		in.Cancellation = cancellation
		plan := paymentplan.Compute(in)
		assert.True(t, plan.HostRefund.Empty())
		assert.Empty(t, plan.HostRefund.Rows)
	}
}

func TestComputeHidesWithCancelWithoutCancelledProperty(t *testing.T) {
	in := scenarioInput(calendar.WeekdaySet{})
	in.Properties = []paymentplan.Property{{Title: "Studio", NightPrice: dec("50"), Deposit: dec("25")}}
	in.Cancellation = cancelledOn("", "2024-01-06")

	plan := paymentplan.Compute(in)

	assert.False(t, plan.ShowWithCancel)
	assertMoney(t, "25", plan.DepositTotal)
	assertMoney(t, "25", plan.NoCancelSum.Deposit)
	assertMoney(t, "700", plan.NoCancelSum.FinalTotal)
	assertMoney(t, "725", plan.NoCancelSum.GrandTotal())
}
