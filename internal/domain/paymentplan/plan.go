package paymentplan

import (
	"github.com/shopspring/decimal"

	"bookingsystem/internal/domain/calendar"
	"bookingsystem/internal/domain/shared/daterange"
)

// Input is a consistent snapshot of one booking, with the holidays already
// loaded and the paid-period selection already read.
type Input struct {
	Stay         daterange.DateRange
	Cadence      Cadence
	Rules        calendar.Rules
	ServiceFee   bool
	Properties   []Property
	Cancellation Cancellation
	PaidPeriods  []int
}

func (in Input) DepositTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range in.Properties {
		total = total.Add(p.Deposit)
	}
	return total
}

// HasCancelledProperty reports whether any property is flagged cancelled.
func (in Input) HasCancelledProperty() bool {
	for _, p := range in.Properties {
		if p.IsCancelled {
			return true
		}
	}
	return false
}

type Plan struct {
	Periods       []Period
	DepositTotal  decimal.Decimal
	NoCancel      []PeriodTotals
	NoCancelSum   Sum
	WithCancel    []PeriodTotals
	WithCancelSum Sum
	// ShowWithCancel is set when a cancellation date exists and at least one property is cancelled.
	ShowWithCancel bool
	HostRefund     HostRefund
}

// Compute runs partitioning, totals and refund reconciliation for one booking.
func Compute(in Input) Plan {
	periods := BuildPeriods(in.Stay.CheckIn, in.Stay.CheckOut, in.Cadence)
	deposit := in.DepositTotal()

	plan := Plan{
		Periods:        periods,
		DepositTotal:   deposit,
		NoCancel:       NoCancelTotals(periods, in.Properties, in.ServiceFee, in.Rules, deposit),
		WithCancel:     WithCancelTotals(periods, in.Properties, in.ServiceFee, in.Rules, deposit, in.Cancellation),
		ShowWithCancel: in.Cancellation.Exists() && in.HasCancelledProperty(),
		HostRefund:     HostRefunds(in.Properties, periods, in.PaidPeriods, in.ServiceFee, in.Rules, in.Stay.CheckOut, in.Cancellation),
	}
	plan.NoCancelSum = SumTotals(plan.NoCancel)
	plan.WithCancelSum = SumTotals(plan.WithCancel)
	return plan
}
