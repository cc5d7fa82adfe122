package calendar

import (
	"slices"

	"bookingsystem/internal/domain/shared/civil"
	"bookingsystem/internal/domain/shared/daterange"
)

// HolidaySet is an ordered, duplicate-free set of calendar dates.
type HolidaySet struct {
	dates []civil.Date
	index map[string]struct{}
}

func NewHolidaySet(dates ...civil.Date) HolidaySet {
	sorted := slices.Clone(dates)
	slices.SortFunc(sorted, civil.Date.Compare)
	sorted = slices.CompactFunc(sorted, civil.Date.Equal)

	index := make(map[string]struct{}, len(sorted))
	for _, d := range sorted {
		index[d.String()] = struct{}{}
	}
	return HolidaySet{dates: sorted, index: index}
}

func (h HolidaySet) Contains(d civil.Date) bool {
	_, ok := h.index[d.String()]
	return ok
}

func (h HolidaySet) Len() int { return len(h.dates) }

func (h HolidaySet) Dates() []civil.Date {
	return slices.Clone(h.dates)
}

// Restrict keeps only the holidays inside [r.CheckIn, r.CheckOut).
func (h HolidaySet) Restrict(r daterange.DateRange) HolidaySet {
	kept := make([]civil.Date, 0, len(h.dates))
	for _, d := range h.dates {
		if r.ContainsDate(d) {
			kept = append(kept, d)
		}
	}
	return NewHolidaySet(kept...)
}
