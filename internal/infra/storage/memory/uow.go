package memory

import (
	"context"
	"errors"

	"bookingsystem/internal/app/outbox"
	"bookingsystem/internal/app/uow"
	domainbooking "bookingsystem/internal/domain/booking"
	domainholiday "bookingsystem/internal/domain/holiday"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	BookingRepo domainbooking.Repository
	HolidayRepo domainholiday.Repository
	OutboxStore *OutboxStore
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// NewFactory builds a factory over fresh, empty stores.
func NewFactory() Factory {
	return Factory{
		BookingRepo: NewBookingRepository(),
		HolidayRepo: NewHolidayRepository(),
		OutboxStore: NewOutboxStore(),
	}
}

// Begin starts a lightweight transaction boundary. Repository writes are not
// isolated; only outbox records wait for Commit.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.BookingRepo == nil || f.HolidayRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		bookings: f.BookingRepo,
		holidays: f.HolidayRepo,
		store:    f.OutboxStore,
		staged:   &stagedOutbox{},
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	bookings domainbooking.Repository
	holidays domainholiday.Repository
	store    *OutboxStore
	staged   *stagedOutbox
}

func (u *Unit) Bookings() domainbooking.Repository {
	return u.bookings
}

func (u *Unit) Holidays() domainholiday.Repository {
	return u.holidays
}

func (u *Unit) Outbox() outbox.Outbox {
	return u.staged
}

func (u *Unit) Commit(ctx context.Context) error {
	records := u.staged.take()
	if u.store != nil {
		u.store.append(records)
	}
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	u.staged.take()
	return nil
}

var _ uow.UoWFactory = Factory{}
