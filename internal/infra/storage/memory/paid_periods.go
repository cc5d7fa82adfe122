package memory

import (
	"context"
	"slices"
	"sync"

	"bookingsystem/internal/app/policies"
	domainbooking "bookingsystem/internal/domain/booking"
	"bookingsystem/internal/domain/shared/civil"
)

// PaidPeriodStore keeps paid period selections for the process lifetime.
type PaidPeriodStore struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID][]int
}

func NewPaidPeriodStore() *PaidPeriodStore {
	return &PaidPeriodStore{items: make(map[domainbooking.BookingID][]int)}
}

func (s *PaidPeriodStore) Get(ctx context.Context, id domainbooking.BookingID) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items[id]), nil
}

func (s *PaidPeriodStore) Replace(ctx context.Context, id domainbooking.BookingID, periods []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(periods) == 0 {
		delete(s.items, id)
		return nil
	}
	s.items[id] = slices.Clone(periods)
	return nil
}

func (s *PaidPeriodStore) Clear(ctx context.Context, id domainbooking.BookingID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// HolidayCache is a process-local holiday cache, mostly for tests.
type HolidayCache struct {
	mu    sync.RWMutex
	dates []civil.Date
	ok    bool
}

func (c *HolidayCache) Get(ctx context.Context) ([]civil.Date, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.dates), c.ok, nil
}

func (c *HolidayCache) Put(ctx context.Context, dates []civil.Date) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dates, c.ok = slices.Clone(dates), true
	return nil
}

func (c *HolidayCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dates, c.ok = nil, false
	return nil
}

var (
	_ policies.PaidPeriodStore = (*PaidPeriodStore)(nil)
	_ policies.HolidayCache    = (*HolidayCache)(nil)
)
