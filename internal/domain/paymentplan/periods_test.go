package paymentplan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookingsystem/internal/domain/paymentplan"
	"bookingsystem/internal/domain/shared/civil"
)

func d(s string) civil.Date { return civil.MustParseDate(s) }

func spans(periods []paymentplan.Period) [][2]string {
	out := make([][2]string, len(periods))
	for i, p := range periods {
		out[i] = [2]string{p.Start.String(), p.End.String()}
	}
	return out
}

func TestBuildPeriods(t *testing.T) {
	tests := []struct {
		name     string
		in, out  string
		cadence  paymentplan.Cadence
		expected [][2]string
	}{
		{
			name: "weekly", in: "2024-01-01", out: "2024-01-15", cadence: paymentplan.Weekly,
			expected: [][2]string{{"2024-01-01", "2024-01-08"}, {"2024-01-08", "2024-01-15"}},
		},
		{
			name: "weekly clamps last period", in: "2024-01-01", out: "2024-01-10", cadence: paymentplan.Weekly,
			expected: [][2]string{{"2024-01-01", "2024-01-08"}, {"2024-01-08", "2024-01-10"}},
		},
		{
			name: "fortnightly", in: "2024-01-01", out: "2024-02-01", cadence: paymentplan.Fortnightly,
			expected: [][2]string{{"2024-01-01", "2024-01-15"}, {"2024-01-15", "2024-01-29"}, {"2024-01-29", "2024-02-01"}},
		},
		{
			name: "monthly aligns to calendar months", in: "2024-01-20", out: "2024-03-10", cadence: paymentplan.Monthly,
			expected: [][2]string{{"2024-01-20", "2024-02-01"}, {"2024-02-01", "2024-03-01"}, {"2024-03-01", "2024-03-10"}},
		},
		{
			name: "monthly across year end", in: "2024-12-15", out: "2025-01-05", cadence: paymentplan.Monthly,
			expected: [][2]string{{"2024-12-15", "2025-01-01"}, {"2025-01-01", "2025-01-05"}},
		},
		{
			name: "full stay", in: "2024-01-01", out: "2024-03-01", cadence: paymentplan.Full,
			expected: [][2]string{{"2024-01-01", "2024-03-01"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			periods := paymentplan.BuildPeriods(d(tt.in), d(tt.out), tt.cadence)
			assert.Equal(t, tt.expected, spans(periods))
			for i, p := range periods {
				assert.Equal(t, i, p.Index)
			}
		})
	}
}

func TestBuildPeriodsEmptyStay(t *testing.T) {
	assert.Empty(t, paymentplan.BuildPeriods(d("2024-01-10"), d("2024-01-10"), paymentplan.Weekly))
	assert.Empty(t, paymentplan.BuildPeriods(d("2024-01-10"), d("2024-01-01"), paymentplan.Monthly))
}

func TestBuildPeriodsCoverTheStay(t *testing.T) {
	cadences := []paymentplan.Cadence{paymentplan.Weekly, paymentplan.Fortnightly, paymentplan.Monthly, paymentplan.Full}
	checkIn := d("2024-01-17")
	for _, cadence := range cadences {
		for length := 1; length <= 120; length += 7 {
			checkOut := checkIn.AddDays(length)
			periods := paymentplan.BuildPeriods(checkIn, checkOut, cadence)
			require.NotEmpty(t, periods)

			assert.True(t, periods[0].Start.Equal(checkIn), "%s/%d: first start", cadence, length)
			assert.True(t, periods[len(periods)-1].End.Equal(checkOut), "%s/%d: last end", cadence, length)
			for i := range periods {
				assert.True(t, periods[i].End.After(periods[i].Start), "%s/%d: period %d is empty", cadence, length, i)
				if i > 0 {
					assert.True(t, periods[i].Start.Equal(periods[i-1].End), "%s/%d: gap before %d", cadence, length, i)
				}
			}
		}
	}
}

func TestParseCadence(t *testing.T) {
	tests := []struct {
		in      string
		want    paymentplan.Cadence
		wantErr bool
	}{
		{in: "weekly", want: paymentplan.Weekly},
		{in: "fortnighly", want: paymentplan.Fortnightly},
		{in: "Fortnightly", want: paymentplan.Fortnightly},
		{in: "Monthly", want: paymentplan.Monthly},
		{in: "", want: paymentplan.Monthly},
		{in: "full", want: paymentplan.Full},
		{in: "yearly", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := paymentplan.ParseCadence(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, paymentplan.ErrUnknownCadence)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "fortnighly", paymentplan.Fortnightly.StorageValue())
	assert.Equal(t, "Monthly", paymentplan.Monthly.StorageValue())
	assert.Equal(t, "weekly", paymentplan.Weekly.StorageValue())
}

func TestKeepPaid(t *testing.T) {
	assert.Equal(t, []int{0, 2}, paymentplan.KeepPaid([]int{2, 0, 2, 5, -1}, 3))
	assert.Empty(t, paymentplan.KeepPaid(nil, 3))
	assert.Empty(t, paymentplan.KeepPaid([]int{0, 1}, 0))
}
