package paymentplan

import (
	"github.com/shopspring/decimal"

	"bookingsystem/internal/domain/calendar"
	"bookingsystem/internal/domain/shared/civil"
)

// ServiceFeePerNight is charged per property and eligible night.
var ServiceFeePerNight = decimal.NewFromFloat(0.5)

// PeriodTotals is one row of a totals table.
type PeriodTotals struct {
	Period Period
	// Nights is the number of eligible nights in the period.
	Nights int
	// PropertyNights holds the nights billed per property, in input order.
	PropertyNights []int
	Deposit        decimal.Decimal
	ServiceFee     decimal.Decimal
	FinalTotal     decimal.Decimal
}

// NoCancelTotals bills every property for every eligible night of each period.
func NoCancelTotals(periods []Period, properties []Property, serviceFee bool, rules calendar.Rules, depositTotal decimal.Decimal) []PeriodTotals {
	return buildTotals(periods, properties, serviceFee, rules, depositTotal, make([]civil.NullDate, len(properties)))
}

// WithCancelTotals bills cancelled properties only up to their effective
// cancel end. Without a booking cancellation date there is no table.
func WithCancelTotals(periods []Period, properties []Property, serviceFee bool, rules calendar.Rules, depositTotal decimal.Decimal, cancellation Cancellation) []PeriodTotals {
	if !cancellation.Exists() {
		return nil
	}
	cutoffs := make([]civil.NullDate, len(properties))
	for i, p := range properties {
		cutoffs[i] = EffectiveCancelEnd(p, cancellation)
	}
	return buildTotals(periods, properties, serviceFee, rules, depositTotal, cutoffs)
}

// buildTotals expects one cutoff per property; an invalid cutoff bills the whole period.
func buildTotals(periods []Period, properties []Property, serviceFee bool, rules calendar.Rules, depositTotal decimal.Decimal, cutoffs []civil.NullDate) []PeriodTotals {
	rows := make([]PeriodTotals, 0, len(periods))
	for _, period := range periods {
		row := PeriodTotals{
			Period:         period,
			Nights:         rules.Nights(period.Start, period.End),
			PropertyNights: make([]int, len(properties)),
			Deposit:        decimal.Zero,
			ServiceFee:     decimal.Zero,
			FinalTotal:     decimal.Zero,
		}
		if period.Index == 0 {
			row.Deposit = depositTotal
		}

		for i, p := range properties {
			nights := row.Nights
			if cutoffs[i].Valid {
				// A cutoff before period.Start gives an inverted range, which Nights counts as 0.
				nights = rules.Nights(period.Start, civil.Min(cutoffs[i].Date, period.End))
			}
			row.PropertyNights[i] = nights

			billed := decimal.NewFromInt(int64(nights))
			row.FinalTotal = row.FinalTotal.Add(p.NightPrice.Mul(billed))
			if serviceFee {
				row.ServiceFee = row.ServiceFee.Add(ServiceFeePerNight.Mul(billed))
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Sum is the footer of a totals table.
type Sum struct {
	Nights     int
	Deposit    decimal.Decimal
	ServiceFee decimal.Decimal
	FinalTotal decimal.Decimal
}

func (s Sum) GrandTotal() decimal.Decimal {
	return s.Deposit.Add(s.ServiceFee).Add(s.FinalTotal)
}

func SumTotals(rows []PeriodTotals) Sum {
	sum := Sum{Deposit: decimal.Zero, ServiceFee: decimal.Zero, FinalTotal: decimal.Zero}
	for _, row := range rows {
		sum.Nights += row.Nights
		sum.Deposit = sum.Deposit.Add(row.Deposit)
		sum.ServiceFee = sum.ServiceFee.Add(row.ServiceFee)
		sum.FinalTotal = sum.FinalTotal.Add(row.FinalTotal)
	}
	return sum
}

func (t PeriodTotals) RowTotal() decimal.Decimal {
	return t.Deposit.Add(t.ServiceFee).Add(t.FinalTotal)
}
