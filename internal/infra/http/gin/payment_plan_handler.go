package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"bookingsystem/internal/app/commands"
	"bookingsystem/internal/app/dto"
	paymentplanapp "bookingsystem/internal/app/handlers/paymentplan"
	"bookingsystem/internal/app/queries"
)

type PaymentPlanHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type paidPeriodsRequest struct {
	Periods []int `json:"periods"`
}

func (h PaymentPlanHandler) Get(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	result, err := queries.Ask[paymentplanapp.GetPaymentPlanQuery, dto.PaymentPlanDTO](c.Request.Context(), h.Queries, paymentplanapp.GetPaymentPlanQuery{BookingID: id})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PaymentPlanHandler) MarkPaid(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	var req paidPeriodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := paymentplanapp.MarkPaidCommand{BookingID: id, Periods: req.Periods}
	result, err := commands.Dispatch[paymentplanapp.MarkPaidCommand, *paymentplanapp.MarkPaidResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PaymentPlanHandler) Export(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	cmd := paymentplanapp.ExportPaymentPlanCommand{BookingID: id, IdempotencyKeyV: idempotencyKey(c)}
	result, err := commands.Dispatch[paymentplanapp.ExportPaymentPlanCommand, *paymentplanapp.ExportPaymentPlanResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

var _ PaymentPlanHTTP = PaymentPlanHandler{}
