package civil_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookingsystem/internal/domain/shared/civil"
)

func TestParseDateIsStrict(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"2024-01-01", true},
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"2024-1-01", false},
		{"01/01/2024", false},
		{"2024-01-01T10:00:00Z", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := civil.ParseDate(tt.in)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, civil.ErrInvalidDate)
			}
		})
	}
}

func TestDateOfIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	late := time.Date(2024, 3, 9, 23, 59, 0, 0, loc)
	assert.True(t, civil.DateOf(late).Equal(civil.NewDate(2024, 3, 9)))
	assert.Equal(t, "2024-03-09", civil.DateOf(late).String())
}

func TestFirstOfNextMonth(t *testing.T) {
	assert.Equal(t, "2024-02-01", civil.MustParseDate("2024-01-31").FirstOfNextMonth().String())
	assert.Equal(t, "2025-01-01", civil.MustParseDate("2024-12-15").FirstOfNextMonth().String())
	assert.Equal(t, "2024-03-01", civil.MustParseDate("2024-02-01").FirstOfNextMonth().String())
}

func TestDaysBetween(t *testing.T) {
	a := civil.MustParseDate("2024-03-01")
	b := civil.MustParseDate("2024-04-01")
	assert.Equal(t, 31, civil.DaysBetween(a, b))
	assert.Equal(t, -31, civil.DaysBetween(b, a))
	assert.Equal(t, 0, civil.DaysBetween(a, a))
}

func TestNullDateJSON(t *testing.T) {
	type payload struct {
		At civil.NullDate `json:"at"`
	}

	out, err := json.Marshal(payload{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":null}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"at":"2024-01-06"}`), &in))
	assert.True(t, in.At.Valid)
	assert.Equal(t, "2024-01-06", in.At.String())

	require.NoError(t, json.Unmarshal([]byte(`{"at":""}`), &in))
	assert.False(t, in.At.Valid)

	assert.Error(t, json.Unmarshal([]byte(`{"at":"06/01/2024"}`), &in))
}
