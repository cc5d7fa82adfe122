package dto

import (
	"time"

	"github.com/shopspring/decimal"

	domainbooking "bookingsystem/internal/domain/booking"
	"bookingsystem/internal/domain/shared/civil"
)

// Money renders amounts with two decimal places.
func Money(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

type PropertyDTO struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	NightPrice   string         `json:"night_price"`
	Deposit      string         `json:"deposit"`
	CheckoutDate civil.NullDate `json:"checkout_date"`
	IsCancelled  bool           `json:"is_cancelled"`
	NotifyDay    int            `json:"notify_day"`
}

type BookingDTO struct {
	ID                 int64          `json:"id"`
	CheckIn            string         `json:"checkin"`
	CheckOut           string         `json:"checkout"`
	Days               []string       `json:"days"`
	ServiceFee         bool           `json:"service_fee"`
	ExcludeBankHoliday bool           `json:"exclude_bank_holiday"`
	PaymentPlan        string         `json:"payment_plan"`
	NotificationDate   civil.NullDate `json:"notification_date"`
	CancellationDate   civil.NullDate `json:"cancellation_date"`
	DepositTotal       string         `json:"deposit_total"`
	Properties         []PropertyDTO  `json:"properties"`
	PaidPeriods        []int          `json:"paid_periods"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

type BookingSummaryDTO struct {
	ID            int64     `json:"id"`
	CheckIn       string    `json:"checkin"`
	CheckOut      string    `json:"checkout"`
	PaymentPlan   string    `json:"payment_plan"`
	ServiceFee    bool      `json:"service_fee"`
	Cancelled     bool      `json:"cancelled"`
	PropertyCount int       `json:"property_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type BookingCollection struct {
	Items []BookingSummaryDTO `json:"items"`
}

func BookingFromDomain(b *domainbooking.Booking, paid []int) BookingDTO {
	props := make([]PropertyDTO, len(b.Properties))
	for i, p := range b.Properties {
		props[i] = PropertyDTO{
			ID:           int64(p.ID),
			Title:        p.Title,
			NightPrice:   Money(p.NightPrice),
			Deposit:      Money(p.Deposit),
			CheckoutDate: p.CheckoutDate,
			IsCancelled:  p.IsCancelled,
			NotifyDay:    p.NotifyDay,
		}
	}
	if paid == nil {
		paid = []int{}
	}
	return BookingDTO{
		ID:                 int64(b.ID),
		CheckIn:            b.Stay.Range.CheckIn.String(),
		CheckOut:           b.Stay.Range.CheckOut.String(),
		Days:               b.Stay.Weekdays.Strings(),
		ServiceFee:         b.ServiceFee,
		ExcludeBankHoliday: b.Stay.ExcludeHolidays,
		PaymentPlan:        b.Stay.Cadence.String(),
		NotificationDate:   b.Cancellation.NotificationDate,
		CancellationDate:   b.Cancellation.CancellationDate,
		DepositTotal:       Money(b.DepositTotal()),
		Properties:         props,
		PaidPeriods:        paid,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func BookingSummaryFromDomain(s domainbooking.Summary) BookingSummaryDTO {
	return BookingSummaryDTO{
		ID:            int64(s.ID),
		CheckIn:       s.CheckIn.String(),
		CheckOut:      s.CheckOut.String(),
		PaymentPlan:   s.Cadence.String(),
		ServiceFee:    s.ServiceFee,
		Cancelled:     s.Cancelled,
		PropertyCount: s.PropertyCount,
		CreatedAt:     s.CreatedAt,
	}
}
