package civil

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// NullDate is an optional calendar date. The zero value is "absent".
type NullDate struct {
	Date  Date
	Valid bool
}

func Some(d Date) NullDate {
	return NullDate{Date: d, Valid: !d.IsZero()}
}

// ParseNullDate treats blank input as an absent date.
func ParseNullDate(value string) (NullDate, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return NullDate{}, nil
	}
	d, err := ParseDate(value)
	if err != nil {
		return NullDate{}, err
	}
	return Some(d), nil
}

// NullDateFromTime maps a nullable driver value onto a NullDate.
func NullDateFromTime(t *time.Time) NullDate {
	if t == nil || t.IsZero() {
		return NullDate{}
	}
	return Some(DateOf(*t))
}

// TimePtr is the inverse of NullDateFromTime.
func (n NullDate) TimePtr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Date.Time()
	return &t
}

func (n NullDate) String() string {
	if !n.Valid {
		return ""
	}
	return n.Date.String()
}

func (n NullDate) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Date.String())
}

func (n *NullDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*n = NullDate{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseNullDate(raw)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
