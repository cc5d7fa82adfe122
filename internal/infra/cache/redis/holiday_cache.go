package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"bookingsystem/internal/app/policies"
	"bookingsystem/internal/domain/shared/civil"
)

const holidaysKey = "holidays:all"

// HolidayCache stores the whole calendar as one JSON array of dates.
type HolidayCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewHolidayCache(rdb *redis.Client, ttl time.Duration) *HolidayCache {
	return &HolidayCache{rdb: rdb, ttl: ttl}
}

func (c *HolidayCache) Get(ctx context.Context) ([]civil.Date, bool, error) {
	raw, err := c.rdb.Get(ctx, holidaysKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var dates []civil.Date
	if err := json.Unmarshal(raw, &dates); err != nil {
		return nil, false, err
	}
	return dates, true, nil
}

func (c *HolidayCache) Put(ctx context.Context, dates []civil.Date) error {
	if dates == nil {
		dates = []civil.Date{}
	}
	payload, err := json.Marshal(dates)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, holidaysKey, payload, c.ttl).Err()
}

func (c *HolidayCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, holidaysKey).Err()
}

var _ policies.HolidayCache = (*HolidayCache)(nil)
