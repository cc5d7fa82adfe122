package dto

import (
	domainholiday "bookingsystem/internal/domain/holiday"
	"bookingsystem/internal/domain/shared/civil"
)

type HolidayCollection struct {
	Dates []string `json:"dates"`
}

func HolidaysFromDates(dates []civil.Date) HolidayCollection {
	out := HolidayCollection{Dates: make([]string, len(dates))}
	for i, d := range dates {
		out.Dates[i] = d.String()
	}
	return out
}

type HolidaySyncResult struct {
	Inserted int      `json:"inserted"`
	Deleted  int      `json:"deleted"`
	Invalid  []string `json:"invalid,omitempty"`
	Message  string   `json:"message"`
}

func HolidaySyncFromDomain(res domainholiday.SyncResult) HolidaySyncResult {
	return HolidaySyncResult{
		Inserted: res.Inserted,
		Deleted:  res.Deleted,
		Invalid:  res.Invalid,
		Message:  res.Message,
	}
}
