package postgres

import (
	"context"
	"time"

	domainholiday "bookingsystem/internal/domain/holiday"
	"bookingsystem/internal/domain/shared/civil"
)

type HolidayRepository struct {
	db querier
}

func NewHolidayRepository(db querier) *HolidayRepository {
	return &HolidayRepository{db: db}
}

func (r *HolidayRepository) AllDates(ctx context.Context) ([]civil.Date, error) {
	return r.dates(ctx, `SELECT holiday_date FROM holidays ORDER BY holiday_date ASC`)
}

func (r *HolidayRepository) Between(ctx context.Context, from, to civil.Date) ([]civil.Date, error) {
	const q = `SELECT holiday_date FROM holidays
 WHERE holiday_date >= $1 AND holiday_date < $2
 ORDER BY holiday_date ASC`
	return r.dates(ctx, q, from.Time(), to.Time())
}

// InsertBatch relies on the unique date index to skip existing rows.
func (r *HolidayRepository) InsertBatch(ctx context.Context, holidays []domainholiday.Holiday) (int, error) {
	if len(holidays) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	dates := make([]time.Time, len(holidays))
	created := make([]time.Time, len(holidays))
	for i, h := range holidays {
		dates[i] = h.Date.Time()
		created[i] = h.CreatedAt
	}
	const q = `INSERT INTO holidays (holiday_date, created_at)
SELECT d, c FROM unnest($1::date[], $2::timestamptz[]) AS t(d, c)
ON CONFLICT (holiday_date) DO NOTHING`
	tag, err := r.db.Exec(ctx, q, dates, created)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *HolidayRepository) DeleteBatch(ctx context.Context, dates []civil.Date) (int, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	values := make([]time.Time, len(dates))
	for i, d := range dates {
		values[i] = d.Time()
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM holidays WHERE holiday_date = ANY($1::date[])`, values)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *HolidayRepository) dates(ctx context.Context, q string, args ...any) ([]civil.Date, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []civil.Date
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, civil.DateOf(t))
	}
	return out, rows.Err()
}

var _ domainholiday.Repository = (*HolidayRepository)(nil)
