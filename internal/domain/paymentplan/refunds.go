package paymentplan

import (
	"slices"

	"github.com/shopspring/decimal"

	"bookingsystem/internal/domain/calendar"
	"bookingsystem/internal/domain/shared/civil"
	"bookingsystem/internal/domain/shared/daterange"
)

type RefundRow struct {
	Title           string
	CancelledNights int
	ServiceFee      decimal.Decimal
	FinalTotal      decimal.Decimal
}

type RefundTotals struct {
	ServiceFee decimal.Decimal
	FinalTotal decimal.Decimal
}

// HostRefund lists, per cancelled property, the already paid nights the host
// has to give back.
type HostRefund struct {
	Rows   []RefundRow
	Totals RefundTotals
}

func (r HostRefund) Empty() bool { return len(r.Rows) == 0 }

// HostRefunds only looks at periods whose index is in paid. Properties with
// nothing to refund are left out.
func HostRefunds(properties []Property, periods []Period, paid []int, serviceFee bool, rules calendar.Rules, checkOut civil.Date, cancellation Cancellation) HostRefund {
	out := HostRefund{Totals: RefundTotals{ServiceFee: decimal.Zero, FinalTotal: decimal.Zero}}
	if !cancellation.Exists() || len(paid) == 0 {
		return out
	}

	for _, p := range properties {
		if !p.IsCancelled {
			continue
		}
		cutoff := EffectiveCancelEnd(p, cancellation)
		if !cutoff.Valid || !cutoff.Date.Before(checkOut) {
			continue
		}
		refundable := daterange.DateRange{CheckIn: cutoff.Date, CheckOut: checkOut}

		nights := 0
		for _, period := range periods {
			if !slices.Contains(paid, period.Index) {
				continue
			}
			if overlap, ok := refundable.Intersect(period.Range()); ok {
				nights += rules.RangeNights(overlap)
			}
		}
		if nights <= 0 {
			continue
		}

		row := RefundRow{
			Title:           p.Title,
			CancelledNights: nights,
			ServiceFee:      decimal.Zero,
			FinalTotal:      p.NightPrice.Mul(decimal.NewFromInt(int64(nights))),
		}
		if serviceFee {
			row.ServiceFee = ServiceFeePerNight.Mul(decimal.NewFromInt(int64(nights)))
		}
		out.Rows = append(out.Rows, row)
		out.Totals.ServiceFee = out.Totals.ServiceFee.Add(row.ServiceFee)
		out.Totals.FinalTotal = out.Totals.FinalTotal.Add(row.FinalTotal)
	}
	return out
}
