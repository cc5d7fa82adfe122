package holidays

import (
	"context"
	"log/slog"

	"bookingsystem/internal/app/policies"
	"bookingsystem/internal/domain/calendar"
	domainholiday "bookingsystem/internal/domain/holiday"
	"bookingsystem/internal/domain/shared/civil"
	"bookingsystem/internal/domain/shared/daterange"
)

// Calendar reads holidays through the optional cache. Cache failures fall
// back to the repository and are only logged.
type Calendar struct {
	Cache  policies.HolidayCache
	Logger *slog.Logger
}

func (c Calendar) All(ctx context.Context, repo domainholiday.Repository) ([]civil.Date, error) {
	if c.Cache != nil {
		dates, ok, err := c.Cache.Get(ctx)
		switch {
		case err != nil:
			c.logger().WarnContext(ctx, "holiday cache read failed", "error", err)
		case ok:
			return dates, nil
		}
	}
	dates, err := repo.AllDates(ctx)
	if err != nil {
		return nil, err
	}
	if c.Cache != nil {
		if err := c.Cache.Put(ctx, dates); err != nil {
			c.logger().WarnContext(ctx, "holiday cache write failed", "error", err)
		}
	}
	return dates, nil
}

// Within returns the holidays inside [stay.CheckIn, stay.CheckOut).
func (c Calendar) Within(ctx context.Context, repo domainholiday.Repository, stay daterange.DateRange) (calendar.HolidaySet, error) {
	if c.Cache != nil {
		all, err := c.All(ctx, repo)
		if err != nil {
			return calendar.HolidaySet{}, err
		}
		return calendar.NewHolidaySet(all...).Restrict(stay), nil
	}
	dates, err := repo.Between(ctx, stay.CheckIn, stay.CheckOut)
	if err != nil {
		return calendar.HolidaySet{}, err
	}
	return calendar.NewHolidaySet(dates...), nil
}

func (c Calendar) Invalidate(ctx context.Context) {
	if c.Cache == nil {
		return
	}
	if err := c.Cache.Invalidate(ctx); err != nil {
		c.logger().WarnContext(ctx, "holiday cache invalidation failed", "error", err)
	}
}

func (c Calendar) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
