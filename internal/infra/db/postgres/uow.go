package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookingsystem/internal/app/outbox"
	"bookingsystem/internal/app/uow"
	domainbooking "bookingsystem/internal/domain/booking"
	domainholiday "bookingsystem/internal/domain/holiday"
)

// Factory opens one pgx transaction per unit of work.
type Factory struct {
	Pool *pgxpool.Pool
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	if opts.ReadOnly {
		txOpts.AccessMode = pgx.ReadOnly
	}
	tx, err := f.Pool.BeginTx(ctx, txOpts)
	if err != nil {
		return nil, err
	}
	return &Unit{
		tx:       tx,
		bookings: NewBookingRepository(tx),
		holidays: NewHolidayRepository(tx),
		outbox:   &Outbox{db: tx},
	}, nil
}

type Unit struct {
	tx       pgx.Tx
	bookings *BookingRepository
	holidays *HolidayRepository
	outbox   *Outbox
}

func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }

func (u *Unit) Holidays() domainholiday.Repository { return u.holidays }

func (u *Unit) Outbox() outbox.Outbox { return u.outbox }

func (u *Unit) Commit(ctx context.Context) error {
	return u.tx.Commit(ctx)
}

// Rollback is a no-op after Commit.
func (u *Unit) Rollback(ctx context.Context) error {
	err := u.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

var _ uow.UoWFactory = Factory{}
