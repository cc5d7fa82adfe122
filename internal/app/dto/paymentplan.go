package dto

import (
	"slices"

	"bookingsystem/internal/domain/paymentplan"
	"bookingsystem/internal/domain/shared/civil"
)

// Display-only reminder offsets, counted back from the period start.
const (
	notifyLeadDays = 16
	dueLeadDays    = 7
)

type PeriodDTO struct {
	Index            int    `json:"index"`
	Start            string `json:"start"`
	End              string `json:"end"`
	Nights           int    `json:"nights"`
	Paid             bool   `json:"paid"`
	NotifyBy         string `json:"notify_by"`
	NotifyByReplaced bool   `json:"notify_by_replaced"`
	DueBy            string `json:"due_by"`
	DueByReplaced    bool   `json:"due_by_replaced"`
}

type TotalsRowDTO struct {
	Index          int    `json:"index"`
	Start          string `json:"start"`
	End            string `json:"end"`
	Nights         int    `json:"nights"`
	PropertyNights []int  `json:"property_nights"`
	Deposit        string `json:"deposit"`
	ServiceFee     string `json:"service_fee"`
	FinalTotal     string `json:"final_total"`
	RowTotal       string `json:"row_total"`
}

type TotalsFooterDTO struct {
	Nights     int    `json:"nights"`
	Deposit    string `json:"deposit"`
	ServiceFee string `json:"service_fee"`
	FinalTotal string `json:"final_total"`
	GrandTotal string `json:"grand_total"`
}

type TotalsTableDTO struct {
	Rows   []TotalsRowDTO  `json:"rows"`
	Footer TotalsFooterDTO `json:"footer"`
}

type RefundRowDTO struct {
	Title           string `json:"title"`
	CancelledNights int    `json:"cancelled_nights"`
	ServiceFee      string `json:"service_fee"`
	FinalTotal      string `json:"final_total"`
}

type RefundTotalsDTO struct {
	ServiceFee string `json:"service_fee"`
	FinalTotal string `json:"final_total"`
}

type HostRefundDTO struct {
	Rows   []RefundRowDTO  `json:"rows"`
	Totals RefundTotalsDTO `json:"totals"`
}

type PaymentPlanDTO struct {
	BookingID      int64           `json:"booking_id"`
	CheckIn        string          `json:"checkin"`
	CheckOut       string          `json:"checkout"`
	PaymentPlan    string          `json:"payment_plan"`
	Today          string          `json:"today"`
	DepositTotal   string          `json:"deposit_total"`
	PaidPeriods    []int           `json:"paid_periods"`
	Periods        []PeriodDTO     `json:"periods"`
	NoCancel       TotalsTableDTO  `json:"no_cancel"`
	ShowWithCancel bool            `json:"show_with_cancel"`
	WithCancel     *TotalsTableDTO `json:"with_cancel,omitempty"`
	HostRefund     HostRefundDTO   `json:"host_refund"`
}

// PaymentPlanFromDomain renders a computed plan. today drives the reminder
// columns only and never reaches the calculator.
func PaymentPlanFromDomain(bookingID int64, in paymentplan.Input, plan paymentplan.Plan, today civil.Date) PaymentPlanDTO {
	paid := slices.Clone(in.PaidPeriods)
	if paid == nil {
		paid = []int{}
	}
	out := PaymentPlanDTO{
		BookingID:      bookingID,
		CheckIn:        in.Stay.CheckIn.String(),
		CheckOut:       in.Stay.CheckOut.String(),
		PaymentPlan:    in.Cadence.String(),
		Today:          today.String(),
		DepositTotal:   Money(plan.DepositTotal),
		PaidPeriods:    paid,
		Periods:        make([]PeriodDTO, len(plan.Periods)),
		NoCancel:       totalsTable(plan.NoCancel, plan.NoCancelSum),
		ShowWithCancel: plan.ShowWithCancel,
		HostRefund:     hostRefund(plan.HostRefund),
	}
	for i, p := range plan.Periods {
		row := PeriodDTO{
			Index: p.Index,
			Start: p.Start.String(),
			End:   p.End.String(),
			Paid:  slices.Contains(in.PaidPeriods, p.Index),
		}
		if i < len(plan.NoCancel) {
			row.Nights = plan.NoCancel[i].Nights
		}
		notify, notifyReplaced := reminderDate(p.Start.AddDays(-notifyLeadDays), today)
		due, dueReplaced := reminderDate(p.Start.AddDays(-dueLeadDays), today)
		row.NotifyBy, row.NotifyByReplaced = notify.String(), notifyReplaced
		row.DueBy, row.DueByReplaced = due.String(), dueReplaced
		out.Periods[i] = row
	}
	if plan.ShowWithCancel {
		table := totalsTable(plan.WithCancel, plan.WithCancelSum)
		out.WithCancel = &table
	}
	return out
}

// reminderDate moves a reminder that already passed to today.
func reminderDate(original, today civil.Date) (civil.Date, bool) {
	if today.After(original) {
		return today, true
	}
	return original, false
}

func totalsTable(rows []paymentplan.PeriodTotals, sum paymentplan.Sum) TotalsTableDTO {
	out := TotalsTableDTO{
		Rows: make([]TotalsRowDTO, len(rows)),
		Footer: TotalsFooterDTO{
			Nights:     sum.Nights,
			Deposit:    Money(sum.Deposit),
			ServiceFee: Money(sum.ServiceFee),
			FinalTotal: Money(sum.FinalTotal),
			GrandTotal: Money(sum.GrandTotal()),
		},
	}
	for i, r := range rows {
		out.Rows[i] = TotalsRowDTO{
			Index:          r.Period.Index,
			Start:          r.Period.Start.String(),
			End:            r.Period.End.String(),
			Nights:         r.Nights,
			PropertyNights: r.PropertyNights,
			Deposit:        Money(r.Deposit),
			ServiceFee:     Money(r.ServiceFee),
			FinalTotal:     Money(r.FinalTotal),
			RowTotal:       Money(r.RowTotal()),
		}
	}
	return out
}

func hostRefund(r paymentplan.HostRefund) HostRefundDTO {
	out := HostRefundDTO{
		Rows: make([]RefundRowDTO, len(r.Rows)),
		Totals: RefundTotalsDTO{
			ServiceFee: Money(r.Totals.ServiceFee),
			FinalTotal: Money(r.Totals.FinalTotal),
		},
	}
	for i, row := range r.Rows {
		out.Rows[i] = RefundRowDTO{
			Title:           row.Title,
			CancelledNights: row.CancelledNights,
			ServiceFee:      Money(row.ServiceFee),
			FinalTotal:      Money(row.FinalTotal),
		}
	}
	return out
}
