package redis

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"bookingsystem/internal/app/policies"
	domainbooking "bookingsystem/internal/domain/booking"
)

// PaidPeriodStore keeps each booking's paid selection in a set that expires
// TTL after the last change. Reads do not extend it.
type PaidPeriodStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewPaidPeriodStore(rdb *redis.Client, ttl time.Duration) *PaidPeriodStore {
	return &PaidPeriodStore{rdb: rdb, ttl: ttl, prefix: "paid_periods:"}
}

func (s *PaidPeriodStore) key(id domainbooking.BookingID) string {
	return s.prefix + id.String()
}

func (s *PaidPeriodStore) Get(ctx context.Context, id domainbooking.BookingID) ([]int, error) {
	members, err := s.rdb.SMembers(ctx, s.key(id)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(members))
	for _, m := range members {
		n, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("redis: paid period %q: %w", m, err)
		}
		out = append(out, n)
	}
	slices.Sort(out)
	return out, nil
}

func (s *PaidPeriodStore) Replace(ctx context.Context, id domainbooking.BookingID, periods []int) error {
	key := s.key(id)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(periods) == 0 {
			return nil
		}
		members := make([]any, len(periods))
		for i, p := range periods {
			members[i] = strconv.Itoa(p)
		}
		pipe.SAdd(ctx, key, members...)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	return err
}

func (s *PaidPeriodStore) Clear(ctx context.Context, id domainbooking.BookingID) error {
	return s.rdb.Del(ctx, s.key(id)).Err()
}

var _ policies.PaidPeriodStore = (*PaidPeriodStore)(nil)
