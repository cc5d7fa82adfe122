package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"bookingsystem/internal/app/commands"
	"bookingsystem/internal/app/dto"
	bookingapp "bookingsystem/internal/app/handlers/booking"
	"bookingsystem/internal/app/queries"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h BookingHandler) List(c *gin.Context) {
	result, err := queries.Ask[bookingapp.ListBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, bookingapp.ListBookingsQuery{})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Create(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.CreateBookingCommand{Draft: req.draft(), IdempotencyKeyV: idempotencyKey(c)}
	result, err := commands.Dispatch[bookingapp.CreateBookingCommand, *bookingapp.CreateBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) Get(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	result, err := queries.Ask[bookingapp.GetBookingQuery, dto.BookingDTO](c.Request.Context(), h.Queries, bookingapp.GetBookingQuery{BookingID: id})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Update replaces the booking. The paid selection is replaced only when the
// body carries paid_periods.
func (h BookingHandler) Update(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.UpdateBookingCommand{BookingID: id, Draft: req.draft()}
	if req.PaidPeriods != nil {
		cmd.PaidPeriods = *req.PaidPeriods
		cmd.ReplacePaid = true
	}
	result, err := commands.Dispatch[bookingapp.UpdateBookingCommand, *bookingapp.UpdateBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Delete(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	if _, err := h.Commands.Dispatch(c.Request.Context(), bookingapp.DeleteBookingCommand{BookingID: id}); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ BookingHTTP = BookingHandler{}
