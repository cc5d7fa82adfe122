package holiday

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"bookingsystem/internal/domain/calendar"
	"bookingsystem/internal/domain/shared/civil"
)

// Holiday is a calendar-wide public holiday.
type Holiday struct {
	Date      civil.Date
	CreatedAt time.Time
}

type Repository interface {
	AllDates(ctx context.Context) ([]civil.Date, error)
	// Between returns holidays in [from, to).
	Between(ctx context.Context, from, to civil.Date) ([]civil.Date, error)
	// InsertBatch skips dates that already exist and reports how many were added.
	InsertBatch(ctx context.Context, holidays []Holiday) (int, error)
	DeleteBatch(ctx context.Context, dates []civil.Date) (int, error)
}

// SyncPlan is the difference between the stored and the submitted calendar.
type SyncPlan struct {
	ToInsert []civil.Date
	ToDelete []civil.Date
	Invalid  []string
}

func (p SyncPlan) Empty() bool {
	return len(p.ToInsert) == 0 && len(p.ToDelete) == 0
}

// PlanSync trims the submitted values, drops blanks, malformed dates and
// duplicates, then diffs the result against what is stored.
func PlanSync(stored []civil.Date, submitted []string) SyncPlan {
	var plan SyncPlan

	wanted := make([]civil.Date, 0, len(submitted))
	for _, raw := range submitted {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		d, err := civil.ParseDate(value)
		if err != nil {
			plan.Invalid = append(plan.Invalid, value)
			continue
		}
		wanted = append(wanted, d)
	}

	wantedSet := calendar.NewHolidaySet(wanted...)
	storedSet := calendar.NewHolidaySet(stored...)

	for _, d := range wantedSet.Dates() {
		if !storedSet.Contains(d) {
			plan.ToInsert = append(plan.ToInsert, d)
		}
	}
	for _, d := range storedSet.Dates() {
		if !wantedSet.Contains(d) {
			plan.ToDelete = append(plan.ToDelete, d)
		}
	}
	return plan
}

// Records builds the rows to insert.
func (p SyncPlan) Records(now time.Time) []Holiday {
	out := make([]Holiday, len(p.ToInsert))
	for i, d := range p.ToInsert {
		out[i] = Holiday{Date: d, CreatedAt: now.UTC()}
	}
	return out
}

type SyncResult struct {
	Inserted int
	Deleted  int
	Invalid  []string
	Message  string
}

func NewSyncResult(inserted, deleted int, invalid []string) SyncResult {
	res := SyncResult{Inserted: inserted, Deleted: deleted, Invalid: slices.Clone(invalid)}
	var parts []string
	if inserted > 0 {
		parts = append(parts, fmt.Sprintf("%d inserted", inserted))
	}
	if deleted > 0 {
		parts = append(parts, fmt.Sprintf("%d deleted", deleted))
	}
	if len(parts) == 0 {
		res.Message = "No changes detected."
	} else {
		res.Message = strings.Join(parts, " and ") + "."
	}
	return res
}

// Synced is published after the holiday calendar changed.
type Synced struct {
	Inserted int
	Deleted  int
	At       time.Time
}

const CalendarAggregate = "holidays"

func (e Synced) EventName() string     { return "holiday.synced" }
func (e Synced) AggregateID() string   { return CalendarAggregate }
func (e Synced) OccurredAt() time.Time { return e.At }
