package daterange

import (
	"errors"
	"iter"

	"bookingsystem/internal/domain/shared/civil"
)

var (
	ErrInvalidRange = errors.New("daterange: checkout must be after checkin")
)

// DateRange represents a half-open interval [checkIn, checkOut) of calendar days.
type DateRange struct {
	CheckIn  civil.Date
	CheckOut civil.Date
}

func New(checkIn, checkOut civil.Date) (DateRange, error) {
	dr := DateRange{CheckIn: checkIn, CheckOut: checkOut}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

func (dr DateRange) Validate() error {
	if dr.CheckOut.IsZero() || dr.CheckIn.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Empty reports whether the range holds no days at all.
func (dr DateRange) Empty() bool {
	return !dr.CheckOut.After(dr.CheckIn)
}

func (dr DateRange) Nights() int {
	if dr.Empty() {
		return 0
	}
	return civil.DaysBetween(dr.CheckIn, dr.CheckOut)
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

func (dr DateRange) Contains(other DateRange) bool {
	return !other.CheckIn.Before(dr.CheckIn) && !other.CheckOut.After(dr.CheckOut)
}

func (dr DateRange) ContainsDate(d civil.Date) bool {
	return !d.Before(dr.CheckIn) && d.Before(dr.CheckOut)
}

// Intersect returns the common part of both ranges; ok is false when they share no day.
func (dr DateRange) Intersect(other DateRange) (DateRange, bool) {
	out := DateRange{
		CheckIn:  civil.Max(dr.CheckIn, other.CheckIn),
		CheckOut: civil.Min(dr.CheckOut, other.CheckOut),
	}
	if out.Empty() {
		return DateRange{}, false
	}
	return out, true
}

// Days yields every calendar day in [checkIn, checkOut). The sequence can be ranged over repeatedly.
func (dr DateRange) Days() iter.Seq[civil.Date] {
	return func(yield func(civil.Date) bool) {
		for d := dr.CheckIn; d.Before(dr.CheckOut); d = d.AddDays(1) {
			if !yield(d) {
				return
			}
		}
	}
}
