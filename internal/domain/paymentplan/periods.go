package paymentplan

import (
	"slices"

	"bookingsystem/internal/domain/shared/civil"
	"bookingsystem/internal/domain/shared/daterange"
)

// Period is one billing row, half-open [Start, End).
type Period struct {
	Index int
	Start civil.Date
	End   civil.Date
}

func (p Period) Range() daterange.DateRange {
	return daterange.DateRange{CheckIn: p.Start, CheckOut: p.End}
}

// BuildPeriods partitions [checkIn, checkOut) into contiguous periods. Every
// period end is clamped to checkOut. An empty stay yields no periods.
func BuildPeriods(checkIn, checkOut civil.Date, cadence Cadence) []Period {
	if !checkOut.After(checkIn) {
		return nil
	}

	var periods []Period
	for start := checkIn; start.Before(checkOut); {
		end := civil.Min(nextBoundary(start, checkOut, cadence), checkOut)
		periods = append(periods, Period{Index: len(periods), Start: start, End: end})
		start = end
	}
	return periods
}

func nextBoundary(start, checkOut civil.Date, cadence Cadence) civil.Date {
	switch cadence {
	case Weekly:
		return start.AddDays(7)
	case Fortnightly:
		return start.AddDays(14)
	case Monthly:
		return start.FirstOfNextMonth()
	default:
		return checkOut
	}
}

// KeepPaid sorts and dedupes paid period indexes, dropping any that do not
// address one of count periods.
func KeepPaid(indexes []int, count int) []int {
	kept := make([]int, 0, len(indexes))
	for _, idx := range indexes {
		if idx >= 0 && idx < count {
			kept = append(kept, idx)
		}
	}
	slices.Sort(kept)
	return slices.Compact(kept)
}
