package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	domainbooking "bookingsystem/internal/domain/booking"
	domainholiday "bookingsystem/internal/domain/holiday"
	"bookingsystem/internal/domain/shared/civil"
)

// BookingRepository stores bookings in memory. Bookings are copied on the way
// in and out so callers never share state with the store.
type BookingRepository struct {
	mu         sync.RWMutex
	items      map[domainbooking.BookingID]*domainbooking.Booking
	lastID     domainbooking.BookingID
	lastPropID domainbooking.PropertyID
}

// NewBookingRepository builds an empty booking repo.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) NextID(ctx context.Context) (domainbooking.BookingID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastID++
	return r.lastID, nil
}

// ByID fetches a booking.
func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	booking, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return cloneBooking(booking), nil
}

func (r *BookingRepository) List(ctx context.Context) ([]domainbooking.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domainbooking.Summary, 0, len(r.items))
	for _, b := range r.items {
		out = append(out, b.Summary())
	}
	slices.SortFunc(out, func(a, b domainbooking.Summary) int {
		if c := b.CheckIn.Compare(a.CheckIn); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

// Save stores the current booking state and numbers new properties.
func (r *BookingRepository) Save(ctx context.Context, booking *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range booking.Properties {
		if booking.Properties[i].ID == 0 {
			r.lastPropID++
			booking.Properties[i].ID = r.lastPropID
		}
	}
	if booking.ID > r.lastID {
		r.lastID = booking.ID
	}
	r.items[booking.ID] = cloneBooking(booking)
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id domainbooking.BookingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainbooking.ErrBookingNotFound
	}
	delete(r.items, id)
	return nil
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:           b.ID,
		Stay:         b.Stay,
		ServiceFee:   b.ServiceFee,
		Cancellation: b.Cancellation,
		Properties:   slices.Clone(b.Properties),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// HolidayRepository keeps the holiday calendar keyed by date.
type HolidayRepository struct {
	mu    sync.RWMutex
	items map[string]domainholiday.Holiday
}

func NewHolidayRepository() *HolidayRepository {
	return &HolidayRepository{items: make(map[string]domainholiday.Holiday)}
}

func (r *HolidayRepository) AllDates(ctx context.Context) ([]civil.Date, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(func(civil.Date) bool { return true }), nil
}

func (r *HolidayRepository) Between(ctx context.Context, from, to civil.Date) ([]civil.Date, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(func(d civil.Date) bool { return !d.Before(from) && d.Before(to) }), nil
}

func (r *HolidayRepository) InsertBatch(ctx context.Context, holidays []domainholiday.Holiday) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inserted := 0
	for _, h := range holidays {
		key := h.Date.String()
		if _, exists := r.items[key]; exists {
			continue
		}
		r.items[key] = h
		inserted++
	}
	return inserted, nil
}

func (r *HolidayRepository) DeleteBatch(ctx context.Context, dates []civil.Date) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for _, d := range dates {
		if _, exists := r.items[d.String()]; exists {
			delete(r.items, d.String())
			deleted++
		}
	}
	return deleted, nil
}

func (r *HolidayRepository) sortedLocked(keep func(civil.Date) bool) []civil.Date {
	out := make([]civil.Date, 0, len(r.items))
	for _, h := range r.items {
		if keep(h.Date) {
			out = append(out, h.Date)
		}
	}
	slices.SortFunc(out, civil.Date.Compare)
	return out
}

var (
	_ domainbooking.Repository = (*BookingRepository)(nil)
	_ domainholiday.Repository = (*HolidayRepository)(nil)
)
