package booking

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"bookingsystem/internal/domain/calendar"
	"bookingsystem/internal/domain/paymentplan"
	"bookingsystem/internal/domain/shared/civil"
	"bookingsystem/internal/domain/shared/daterange"
	"bookingsystem/internal/domain/shared/events"
)

var (
	ErrBookingNotFound = errors.New("booking: not found")
	ErrInvalidID       = errors.New("booking: invalid id")
)

type BookingID int64

func (id BookingID) String() string { return strconv.FormatInt(int64(id), 10) }

func ParseID(value string) (BookingID, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidID
	}
	return BookingID(n), nil
}

type PropertyID int64

// Stay is the billed date span of a booking together with its night filters.
type Stay struct {
	Range           daterange.DateRange
	Weekdays        calendar.WeekdaySet
	ExcludeHolidays bool
	Cadence         paymentplan.Cadence
}

type Property struct {
	ID           PropertyID
	Title        string
	NightPrice   decimal.Decimal
	Deposit      decimal.Decimal
	CheckoutDate civil.NullDate
	IsCancelled  bool
	NotifyDay    int
}

// Details is the validated, editable content of a booking.
type Details struct {
	Stay         Stay
	ServiceFee   bool
	Cancellation paymentplan.Cancellation
	Properties   []Property
}

type Booking struct {
	ID           BookingID
	Stay         Stay
	ServiceFee   bool
	Cancellation paymentplan.Cancellation
	Properties   []Property
	CreatedAt    time.Time
	UpdatedAt    time.Time
	events.EventRecorder
}

// Summary is a row of the booking list.
type Summary struct {
	ID            BookingID
	CheckIn       civil.Date
	CheckOut      civil.Date
	Cadence       paymentplan.Cadence
	ServiceFee    bool
	Cancelled     bool
	PropertyCount int
	CreatedAt     time.Time
}

type Repository interface {
	NextID(ctx context.Context) (BookingID, error)
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	// List orders by check-in descending, then id descending.
	List(ctx context.Context) ([]Summary, error)
	Save(ctx context.Context, booking *Booking) error
	// Delete removes the booking and its properties.
	Delete(ctx context.Context, id BookingID) error
}

func New(id BookingID, details Details, now time.Time) *Booking {
	now = now.UTC()
	b := &Booking{ID: id, CreatedAt: now}
	b.apply(details, now)
	b.Record(BookingCreated{
		BookingID:  b.ID,
		CheckIn:    b.Stay.Range.CheckIn,
		CheckOut:   b.Stay.Range.CheckOut,
		Properties: len(b.Properties),
		At:         now,
	})
	return b
}

// Replace overwrites the booking, including its whole property set.
func (b *Booking) Replace(details Details, now time.Time) {
	now = now.UTC()
	b.apply(details, now)
	b.Record(BookingUpdated{
		BookingID:  b.ID,
		CheckIn:    b.Stay.Range.CheckIn,
		CheckOut:   b.Stay.Range.CheckOut,
		Properties: len(b.Properties),
		Cancelled:  b.Cancellation.Exists(),
		At:         now,
	})
}

func (b *Booking) MarkDeleted(now time.Time) {
	b.Record(BookingDeleted{BookingID: b.ID, At: now.UTC()})
}

func (b *Booking) apply(details Details, now time.Time) {
	b.Stay = details.Stay
	b.ServiceFee = details.ServiceFee
	b.Cancellation = details.Cancellation
	b.Properties = make([]Property, len(details.Properties))
	copy(b.Properties, details.Properties)
	b.UpdatedAt = now
}

func (b *Booking) DepositTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range b.Properties {
		total = total.Add(p.Deposit)
	}
	return total
}

// PlanInput maps the booking onto the payment plan calculator. Holidays only
// apply when the booking excludes them and are cut to the stay.
func (b *Booking) PlanInput(holidays calendar.HolidaySet, paid []int) paymentplan.Input {
	rules := calendar.Rules{Weekdays: b.Stay.Weekdays}
	if b.Stay.ExcludeHolidays {
		rules.Holidays = holidays.Restrict(b.Stay.Range)
	}
	props := make([]paymentplan.Property, len(b.Properties))
	for i, p := range b.Properties {
		props[i] = paymentplan.Property{
			Title:       p.Title,
			NightPrice:  p.NightPrice,
			Deposit:     p.Deposit,
			IsCancelled: p.IsCancelled,
			NotifyDay:   p.NotifyDay,
			OwnCheckout: p.CheckoutDate,
		}
	}
	return paymentplan.Input{
		Stay:         b.Stay.Range,
		Cadence:      b.Stay.Cadence,
		Rules:        rules,
		ServiceFee:   b.ServiceFee,
		Properties:   props,
		Cancellation: b.Cancellation,
		PaidPeriods:  paid,
	}
}

func (b *Booking) Summary() Summary {
	return Summary{
		ID:            b.ID,
		CheckIn:       b.Stay.Range.CheckIn,
		CheckOut:      b.Stay.Range.CheckOut,
		Cadence:       b.Stay.Cadence,
		ServiceFee:    b.ServiceFee,
		Cancelled:     b.Cancellation.Exists(),
		PropertyCount: len(b.Properties),
		CreatedAt:     b.CreatedAt,
	}
}
