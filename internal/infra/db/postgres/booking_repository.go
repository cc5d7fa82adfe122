package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainbooking "bookingsystem/internal/domain/booking"
	"bookingsystem/internal/domain/calendar"
	"bookingsystem/internal/domain/paymentplan"
	"bookingsystem/internal/domain/shared/civil"
	"bookingsystem/internal/domain/shared/daterange"
)

type BookingRepository struct {
	db querier
}

func NewBookingRepository(db querier) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingCols = `id, checkin, checkout, days, service_fee, exclude_bank_holiday,
payment_plan, notification_date, cancellation_date, created_at, updated_at`

const propertyCols = `id, title, night_price::text, deposit::text, checkout_date, is_cancelled, notify_day`

func (r *BookingRepository) NextID(ctx context.Context) (domainbooking.BookingID, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var id int64
	if err := r.db.QueryRow(ctx, `SELECT nextval(pg_get_serial_sequence('bookings', 'id'))`).Scan(&id); err != nil {
		return 0, err
	}
	return domainbooking.BookingID(id), nil
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRow(ctx, q, int64(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domainbooking.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	const pq = `SELECT ` + propertyCols + ` FROM properties WHERE booking_id = $1 ORDER BY id ASC`
	rows, err := r.db.Query(ctx, pq, int64(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		b.Properties = append(b.Properties, p)
	}
	return b, rows.Err()
}

func (r *BookingRepository) List(ctx context.Context) ([]domainbooking.Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	const q = `SELECT b.id, b.checkin, b.checkout, b.payment_plan, b.service_fee,
       b.cancellation_date IS NOT NULL, b.created_at, COUNT(p.id)
  FROM bookings b
  LEFT JOIN properties p ON p.booking_id = b.id
 GROUP BY b.id
 ORDER BY b.checkin DESC, b.id DESC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domainbooking.Summary
	for rows.Next() {
		var (
			s                 domainbooking.Summary
			id                int64
			checkIn, checkOut time.Time
			plan, fee         string
			count             int64
		)
		if err := rows.Scan(&id, &checkIn, &checkOut, &plan, &fee, &s.Cancelled, &s.CreatedAt, &count); err != nil {
			return nil, err
		}
		s.ID = domainbooking.BookingID(id)
		s.CheckIn, s.CheckOut = civil.DateOf(checkIn), civil.DateOf(checkOut)
		s.Cadence = readCadence(plan)
		s.ServiceFee = domainbooking.ParseFlag(fee)
		s.PropertyCount = int(count)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Save upserts the booking row and rewrites its property rows.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	const q = `INSERT INTO bookings (id, checkin, checkout, days, service_fee, exclude_bank_holiday,
    payment_plan, notification_date, cancellation_date, created_at, updated_at)
  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
  ON CONFLICT (id) DO UPDATE SET
    checkin = EXCLUDED.checkin, checkout = EXCLUDED.checkout, days = EXCLUDED.days,
    service_fee = EXCLUDED.service_fee, exclude_bank_holiday = EXCLUDED.exclude_bank_holiday,
    payment_plan = EXCLUDED.payment_plan, notification_date = EXCLUDED.notification_date,
    cancellation_date = EXCLUDED.cancellation_date, updated_at = EXCLUDED.updated_at`
	_, err := r.db.Exec(ctx, q,
		int64(b.ID),
		b.Stay.Range.CheckIn.Time(), b.Stay.Range.CheckOut.Time(),
		b.Stay.Weekdays.Strings(),
		domainbooking.FlagValue(b.ServiceFee), domainbooking.FlagValue(b.Stay.ExcludeHolidays),
		b.Stay.Cadence.StorageValue(),
		b.Cancellation.NotificationDate.TimePtr(), b.Cancellation.CancellationDate.TimePtr(),
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: save booking %s: %w", b.ID, err)
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM properties WHERE booking_id = $1`, int64(b.ID)); err != nil {
		return err
	}
	const pq = `INSERT INTO properties (booking_id, title, night_price, deposit, checkout_date, is_cancelled, notify_day)
  VALUES ($1, $2, $3::numeric, $4::numeric, $5, $6, $7) RETURNING id`
	for i := range b.Properties {
		p := &b.Properties[i]
		var id int64
		err := r.db.QueryRow(ctx, pq,
			int64(b.ID), p.Title, p.NightPrice.String(), p.Deposit.String(),
			p.CheckoutDate.TimePtr(), domainbooking.FlagValue(p.IsCancelled), p.NotifyDay,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("postgres: save property %q: %w", p.Title, err)
		}
		p.ID = domainbooking.PropertyID(id)
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id domainbooking.BookingID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	tag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, int64(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainbooking.ErrBookingNotFound
	}
	return nil
}

func scanBooking(row pgx.Row) (*domainbooking.Booking, error) {
	var (
		id                         int64
		checkIn, checkOut          time.Time
		days                       []string
		fee, excludeHolidays, plan string
		notification, cancelled    *time.Time
		b                          domainbooking.Booking
	)
	err := row.Scan(&id, &checkIn, &checkOut, &days, &fee, &excludeHolidays, &plan,
		&notification, &cancelled, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.ID = domainbooking.BookingID(id)
	b.Stay = domainbooking.Stay{
		Range:           daterange.DateRange{CheckIn: civil.DateOf(checkIn), CheckOut: civil.DateOf(checkOut)},
		Weekdays:        calendar.ParseWeekdays(days),
		ExcludeHolidays: domainbooking.ParseFlag(excludeHolidays),
		Cadence:         readCadence(plan),
	}
	b.ServiceFee = domainbooking.ParseFlag(fee)
	b.Cancellation = paymentplan.Cancellation{
		NotificationDate: civil.NullDateFromTime(notification),
		CancellationDate: civil.NullDateFromTime(cancelled),
	}
	return &b, nil
}

func scanProperty(row pgx.Row) (domainbooking.Property, error) {
	var (
		p              domainbooking.Property
		id             int64
		price, deposit string
		checkout       *time.Time
		cancelled      string
		notifyDay      int32
	)
	if err := row.Scan(&id, &p.Title, &price, &deposit, &checkout, &cancelled, &notifyDay); err != nil {
		return p, err
	}
	var err error
	if p.NightPrice, err = decimal.NewFromString(price); err != nil {
		return p, err
	}
	if p.Deposit, err = decimal.NewFromString(deposit); err != nil {
		return p, err
	}
	p.ID = domainbooking.PropertyID(id)
	p.CheckoutDate = civil.NullDateFromTime(checkout)
	p.IsCancelled = domainbooking.ParseFlag(cancelled)
	p.NotifyDay = int(notifyDay)
	return p, nil
}

// readCadence maps the stored enum. The column CHECK keeps it valid, so a
// parse failure falls back to the column default.
func readCadence(value string) paymentplan.Cadence {
	c, err := paymentplan.ParseCadence(value)
	if err != nil {
		return paymentplan.Monthly
	}
	return c
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
