package policies

import (
	"context"

	"bookingsystem/internal/domain/shared/civil"
)

// HolidayCache holds the full holiday calendar.
type HolidayCache interface {
	Get(ctx context.Context) ([]civil.Date, bool, error)
	Put(ctx context.Context, dates []civil.Date) error
	Invalidate(ctx context.Context) error
}
