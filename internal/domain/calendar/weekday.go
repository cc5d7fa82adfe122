package calendar

import (
	"encoding/json"
	"strings"
	"time"

	"bookingsystem/internal/domain/shared/civil"
)

type WeekdayCode string

const (
	Mon WeekdayCode = "mon"
	Tue WeekdayCode = "tue"
	Wed WeekdayCode = "wed"
	Thu WeekdayCode = "thu"
	Fri WeekdayCode = "fri"
	Sat WeekdayCode = "sat"
	Sun WeekdayCode = "sun"
)

// Monday-first, the order the set is rendered in.
var allWeekdays = [...]WeekdayCode{Mon, Tue, Wed, Thu, Fri, Sat, Sun}

func CodeOf(w time.Weekday) WeekdayCode {
	return allWeekdays[(int(w)+6)%7]
}

func (c WeekdayCode) bit() uint8 {
	for i, code := range allWeekdays {
		if code == c {
			return 1 << i
		}
	}
	return 0
}

func (c WeekdayCode) Valid() bool { return c.bit() != 0 }

// WeekdaySet is an allow-list of weekdays. The empty set allows every day.
type WeekdaySet struct {
	mask uint8
}

func NewWeekdaySet(codes ...WeekdayCode) WeekdaySet {
	var s WeekdaySet
	for _, code := range codes {
		s.mask |= code.bit()
	}
	return s
}

// ParseWeekdays lower-cases the values and silently drops unknown codes.
func ParseWeekdays(values []string) WeekdaySet {
	codes := make([]WeekdayCode, 0, len(values))
	for _, v := range values {
		codes = append(codes, WeekdayCode(strings.ToLower(strings.TrimSpace(v))))
	}
	return NewWeekdaySet(codes...)
}

func (s WeekdaySet) Empty() bool { return s.mask == 0 }

func (s WeekdaySet) Has(code WeekdayCode) bool {
	bit := code.bit()
	return bit != 0 && s.mask&bit != 0
}

// Allows reports whether d passes the filter.
func (s WeekdaySet) Allows(d civil.Date) bool {
	return s.Empty() || s.Has(CodeOf(d.Weekday()))
}

func (s WeekdaySet) Codes() []WeekdayCode {
	out := make([]WeekdayCode, 0, len(allWeekdays))
	for _, code := range allWeekdays {
		if s.Has(code) {
			out = append(out, code)
		}
	}
	return out
}

func (s WeekdaySet) Strings() []string {
	codes := s.Codes()
	out := make([]string, len(codes))
	for i, code := range codes {
		out[i] = string(code)
	}
	return out
}

func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *WeekdaySet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = ParseWeekdays(values)
	return nil
}
