package civil

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the wire and storage format of a calendar date.
const Layout = "2006-01-02"

var ErrInvalidDate = errors.New("civil: invalid date")

// Date is a calendar day without time-of-day or zone. Values are kept at UTC
// midnight so that comparisons and day arithmetic never see a DST shift.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the time-of-day of t, keeping the calendar day as seen in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate accepts strict YYYY-MM-DD values only.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(Layout, value)
	if err != nil || t.Format(Layout) != value {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return Date{t: t}, nil
}

// MustParseDate panics on malformed input; meant for fixtures and tests.
func MustParseDate(value string) Date {
	d, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Time() time.Time { return d.t }

func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// FirstOfNextMonth returns the 1st of the calendar month following d.
func (d Date) FirstOfNextMonth() Date {
	y, m, _ := d.t.Date()
	return NewDate(y, m+1, 1)
}

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }

func (d Date) Compare(other Date) int { return d.t.Compare(other.t) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(Layout)
}

func (d Date) Format(layout string) string {
	return d.t.Format(layout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysBetween returns the signed number of calendar days from `from` to `to`.
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

func Min(a, b Date) Date {
	if b.Before(a) {
		return b
	}
	return a
}

func Max(a, b Date) Date {
	if b.After(a) {
		return b
	}
	return a
}
