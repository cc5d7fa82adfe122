package uow

import (
	"context"

	"bookingsystem/internal/app/outbox"
	domainbooking "bookingsystem/internal/domain/booking"
	domainholiday "bookingsystem/internal/domain/holiday"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Bookings() domainbooking.Repository
	Holidays() domainholiday.Repository
	// Outbox records events in the same transaction as the repositories.
	Outbox() outbox.Outbox

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
