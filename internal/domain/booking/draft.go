package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"bookingsystem/internal/domain/calendar"
	"bookingsystem/internal/domain/paymentplan"
	"bookingsystem/internal/domain/shared/civil"
	"bookingsystem/internal/domain/shared/daterange"
)

var ErrValidation = errors.New("booking: validation failed")

// ValidationError carries every problem found in a draft.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "booking: " + strings.Join(e.Problems, " ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// Draft is raw booking input as submitted by an operator.
type Draft struct {
	CheckIn            string
	CheckOut           string
	Days               []string
	ServiceFee         string
	ExcludeBankHoliday string
	PaymentPlan        string
	NotificationDate   string
	CancellationDate   string
	Properties         []PropertyDraft
}

type PropertyDraft struct {
	Title        string
	NightPrice   string
	Deposit      string
	CheckoutDate string
	IsCancelled  string
	NotifyDay    string
}

// Normalize validates the draft and resolves it into typed details.
func (d Draft) Normalize() (Details, error) {
	verr := &ValidationError{}
	var details Details

	checkIn, inErr := civil.ParseDate(strings.TrimSpace(d.CheckIn))
	if inErr != nil {
		verr.add("Invalid check-in date.")
	}
	checkOut, outErr := civil.ParseDate(strings.TrimSpace(d.CheckOut))
	if outErr != nil {
		verr.add("Invalid check-out date.")
	}
	if inErr == nil && outErr == nil {
		stay, err := daterange.New(checkIn, checkOut)
		if err != nil {
			verr.add("Checkout date must be greater than checkin date.")
		}
		details.Stay.Range = stay
	}

	notification, err := civil.ParseNullDate(d.NotificationDate)
	if err != nil {
		verr.add("Invalid notification date.")
	}
	cancellation, err := civil.ParseNullDate(d.CancellationDate)
	if err != nil {
		verr.add("Invalid cancellation date.")
	}
	details.Cancellation = paymentplan.Cancellation{NotificationDate: notification, CancellationDate: cancellation}

	cadence, err := paymentplan.ParseCadence(d.PaymentPlan)
	if err != nil {
		verr.add("Unknown payment plan %q.", d.PaymentPlan)
	}
	details.Stay.Cadence = cadence
	details.Stay.Weekdays = calendar.ParseWeekdays(d.Days)
	details.Stay.ExcludeHolidays = ParseFlag(d.ExcludeBankHoliday)
	details.ServiceFee = ParseFlag(d.ServiceFee)

	if len(d.Properties) == 0 {
		verr.add("At least one property is required.")
	}
	for i, pd := range d.Properties {
		p, problems := pd.normalize(details.Stay.Range)
		for _, problem := range problems {
			verr.add("Property #%d: %s", i+1, problem)
		}
		details.Properties = append(details.Properties, p)
	}

	if len(verr.Problems) > 0 {
		return Details{}, verr
	}
	return details, nil
}

func (pd PropertyDraft) normalize(stay daterange.DateRange) (Property, []string) {
	var problems []string
	p := Property{
		Title:       strings.TrimSpace(pd.Title),
		IsCancelled: ParseFlag(pd.IsCancelled),
	}
	if p.Title == "" {
		problems = append(problems, "title is required.")
	}

	var ok bool
	if p.NightPrice, ok = parseAmount(pd.NightPrice); !ok {
		problems = append(problems, "night price must be a number.")
	} else if p.NightPrice.IsNegative() {
		problems = append(problems, "night price must not be negative.")
	}
	if p.Deposit, ok = parseAmount(pd.Deposit); !ok {
		problems = append(problems, "deposit must be a number.")
	} else if p.Deposit.IsNegative() {
		problems = append(problems, "deposit must not be negative.")
	}

	checkout, err := civil.ParseNullDate(pd.CheckoutDate)
	switch {
	case err != nil:
		problems = append(problems, "invalid checkout date.")
	case checkout.Valid && !stay.Empty() && (checkout.Date.Before(stay.CheckIn) || checkout.Date.After(stay.CheckOut)):
		problems = append(problems, "checkout date must be within the stay.")
	}
	p.CheckoutDate = checkout

	notify := strings.TrimSpace(pd.NotifyDay)
	if notify != "" {
		n, err := strconv.Atoi(notify)
		if err != nil || n < 0 || strings.HasPrefix(notify, "+") {
			problems = append(problems, "notify day must be a non-negative integer.")
		} else {
			p.NotifyDay = n
		}
	}
	return p, problems
}

func parseAmount(value string) (decimal.Decimal, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// ParseFlag reads the Yes/No columns of the original forms as well as plain booleans.
func ParseFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "1", "on":
		return true
	default:
		return false
	}
}

// FlagValue is the stored Yes/No representation of a flag.
func FlagValue(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
