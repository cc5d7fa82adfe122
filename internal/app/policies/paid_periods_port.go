package policies

import (
	"context"

	domainbooking "bookingsystem/internal/domain/booking"
)

// PaidPeriodStore keeps the operator's "already paid" period selection per booking.
type PaidPeriodStore interface {
	Get(ctx context.Context, id domainbooking.BookingID) ([]int, error)
	// Replace overwrites the selection; an empty selection clears it.
	Replace(ctx context.Context, id domainbooking.BookingID, periods []int) error
	Clear(ctx context.Context, id domainbooking.BookingID) error
}
