package calendar

import (
	"bookingsystem/internal/domain/shared/civil"
	"bookingsystem/internal/domain/shared/daterange"
)

// Rules bundles the night filters of a single stay.
type Rules struct {
	Weekdays WeekdaySet
	Holidays HolidaySet
}

func (r Rules) Eligible(d civil.Date) bool {
	return r.Weekdays.Allows(d) && !r.Holidays.Contains(d)
}

// Nights counts the eligible days in [from, to). An inverted range counts as zero.
func (r Rules) Nights(from, to civil.Date) int {
	nights := 0
	for day := range (daterange.DateRange{CheckIn: from, CheckOut: to}).Days() {
		if r.Eligible(day) {
			nights++
		}
	}
	return nights
}

func (r Rules) RangeNights(dr daterange.DateRange) int {
	return r.Nights(dr.CheckIn, dr.CheckOut)
}

func CountEligibleNights(from, to civil.Date, weekdays WeekdaySet, holidays HolidaySet) int {
	return Rules{Weekdays: weekdays, Holidays: holidays}.Nights(from, to)
}
