package ginserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paymentplanapp "bookingsystem/internal/app/handlers/paymentplan"
	"bookingsystem/internal/app/middleware"
	domainbooking "bookingsystem/internal/domain/booking"
	domainplan "bookingsystem/internal/domain/paymentplan"
)

func TestFormValueAcceptsScalars(t *testing.T) {
	var req bookingRequest
	err := json.Unmarshal([]byte(`{
		"checkin": "2024-02-01",
		"service_fee": true,
		"notification_date": null,
		"days": ["Mon", "Tue"],
		"properties": [{"title": "Loft", "night_price": 99.5, "notify_day": 7}]
	}`), &req)
	require.NoError(t, err)

	d := req.draft()
	assert.Equal(t, "2024-02-01", d.CheckIn)
	assert.Equal(t, "true", d.ServiceFee)
	assert.Empty(t, d.NotificationDate)
	assert.Equal(t, []string{"Mon", "Tue"}, d.Days)
	require.Len(t, d.Properties, 1)
	assert.Equal(t, "99.5", d.Properties[0].NightPrice)
	assert.Equal(t, "7", d.Properties[0].NotifyDay)
	assert.Nil(t, req.PaidPeriods)
}

func TestFormValueRejectsComposites(t *testing.T) {
	var req bookingRequest
	assert.Error(t, json.Unmarshal([]byte(`{"checkin": ["2024-02-01"]}`), &req))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("load: %w", domainbooking.ErrBookingNotFound), http.StatusNotFound},
		{&domainbooking.ValidationError{Problems: []string{"Invalid check-in date."}}, http.StatusBadRequest},
		{domainplan.ErrUnknownCadence, http.StatusBadRequest},
		{fmt.Errorf("%w: BookingID", middleware.ErrInvalidMessage), http.StatusBadRequest},
		{paymentplanapp.ErrPeriodOutOfRange, http.StatusBadRequest},
		{middleware.ErrIdempotencyKeyReuse, http.StatusConflict},
		{paymentplanapp.ErrExportDisabled, http.StatusServiceUnavailable},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestCORSConfig(t *testing.T) {
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)

	cfg := corsConfig([]string{"https://admin.example.com"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"https://admin.example.com"}, cfg.AllowOrigins)
}
