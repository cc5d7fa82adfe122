package ginserver

import (
	"bytes"
	"encoding/json"
	"fmt"

	domainbooking "bookingsystem/internal/domain/booking"
)

// formValue accepts a JSON string, number, boolean or null and keeps its text.
// The domain draft parses and validates every field itself.
type formValue string

func (v *formValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = formValue(s)
	case data[0] == '{' || data[0] == '[':
		return fmt.Errorf("expected a scalar value, got %s", data)
	default:
		*v = formValue(data)
	}
	return nil
}

type propertyRequest struct {
	Title        formValue `json:"title"`
	NightPrice   formValue `json:"night_price"`
	Deposit      formValue `json:"deposit"`
	CheckoutDate formValue `json:"checkout_date"`
	IsCancelled  formValue `json:"is_cancelled"`
	NotifyDay    formValue `json:"notify_day"`
}

type bookingRequest struct {
	CheckIn            formValue         `json:"checkin"`
	CheckOut           formValue         `json:"checkout"`
	Days               []formValue       `json:"days"`
	ServiceFee         formValue         `json:"service_fee"`
	ExcludeBankHoliday formValue         `json:"exclude_bank_holiday"`
	PaymentPlan        formValue         `json:"payment_plan"`
	NotificationDate   formValue         `json:"notification_date"`
	CancellationDate   formValue         `json:"cancellation_date"`
	Properties         []propertyRequest `json:"properties"`
	PaidPeriods        *[]int            `json:"paid_periods"`
}

func (r bookingRequest) draft() domainbooking.Draft {
	d := domainbooking.Draft{
		CheckIn:            string(r.CheckIn),
		CheckOut:           string(r.CheckOut),
		ServiceFee:         string(r.ServiceFee),
		ExcludeBankHoliday: string(r.ExcludeBankHoliday),
		PaymentPlan:        string(r.PaymentPlan),
		NotificationDate:   string(r.NotificationDate),
		CancellationDate:   string(r.CancellationDate),
	}
	for _, day := range r.Days {
		d.Days = append(d.Days, string(day))
	}
	for _, p := range r.Properties {
		d.Properties = append(d.Properties, domainbooking.PropertyDraft{
			Title:        string(p.Title),
			NightPrice:   string(p.NightPrice),
			Deposit:      string(p.Deposit),
			CheckoutDate: string(p.CheckoutDate),
			IsCancelled:  string(p.IsCancelled),
			NotifyDay:    string(p.NotifyDay),
		})
	}
	return d
}
