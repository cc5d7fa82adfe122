package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	paymentplanapp "bookingsystem/internal/app/handlers/paymentplan"
	"bookingsystem/internal/app/middleware"
	domainbooking "bookingsystem/internal/domain/booking"
	domainplan "bookingsystem/internal/domain/paymentplan"
)

var errInvalidBookingID = errors.New("booking id must be a positive integer")

func statusFor(err error) int {
	switch {
	case errors.Is(err, domainbooking.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainbooking.ErrValidation),
		errors.Is(err, domainbooking.ErrInvalidID),
		errors.Is(err, domainplan.ErrUnknownCadence),
		errors.Is(err, middleware.ErrInvalidMessage),
		errors.Is(err, paymentplanapp.ErrPeriodOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, middleware.ErrIdempotencyKeyReuse):
		return http.StatusConflict
	case errors.Is(err, paymentplanapp.ErrExportDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}
	var verr *domainbooking.ValidationError
	if errors.As(err, &verr) {
		body["problems"] = verr.Problems
	}
	if status >= http.StatusInternalServerError {
		body["error"] = "operation failed: " + err.Error()
		if logger != nil {
			logger.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "status", status, "error", err)
		}
	}
	c.AbortWithStatusJSON(status, body)
}

func bookingIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errInvalidBookingID.Error()})
		return 0, false
	}
	return id, true
}

func idempotencyKey(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader("Idempotency-Key"))
}
