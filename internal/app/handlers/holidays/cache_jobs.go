package holidays

import (
	"context"
	"errors"
	"log/slog"

	"bookingsystem/internal/app/handlers/support"
	"bookingsystem/internal/app/policies"
	"bookingsystem/internal/app/uow"
	domainholiday "bookingsystem/internal/domain/holiday"
)

var ErrCacheNotConfigured = errors.New("holidays: cache not configured")

// RefreshCacheJob reloads the cached calendar from storage.
type RefreshCacheJob struct {
	UoWFactory uow.UoWFactory
	Cache      policies.HolidayCache
	Logger     *slog.Logger
}

func (j RefreshCacheJob) Name() string { return "holidays.refresh_cache" }

func (j RefreshCacheJob) Run(ctx context.Context) error {
	if j.Cache == nil {
		return ErrCacheNotConfigured
	}
	count, err := support.WithReadOnlyUnit(ctx, j.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) (int, error) {
		dates, err := unit.Holidays().AllDates(ctx)
		if err != nil {
			return 0, err
		}
		return len(dates), j.Cache.Put(ctx, dates)
	})
	if err != nil {
		return err
	}
	if j.Logger != nil {
		j.Logger.DebugContext(ctx, "holiday cache refreshed", "dates", count)
	}
	return nil
}

// CacheInvalidator drops the cached calendar when another instance changed it.
type CacheInvalidator struct {
	Cache policies.HolidayCache
}

func (i CacheInvalidator) HandleEvent(ctx context.Context, name string) error {
	if i.Cache == nil || name != (domainholiday.Synced{}).EventName() {
		return nil
	}
	return i.Cache.Invalidate(ctx)
}
