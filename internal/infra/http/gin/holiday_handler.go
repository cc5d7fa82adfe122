package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"bookingsystem/internal/app/commands"
	"bookingsystem/internal/app/dto"
	holidaysapp "bookingsystem/internal/app/handlers/holidays"
	"bookingsystem/internal/app/queries"
)

type HolidayHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type syncHolidaysRequest struct {
	Dates []string `json:"dates"`
}

func (h HolidayHandler) List(c *gin.Context) {
	result, err := queries.Ask[holidaysapp.ListHolidaysQuery, dto.HolidayCollection](c.Request.Context(), h.Queries, holidaysapp.ListHolidaysQuery{})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HolidayHandler) Sync(c *gin.Context) {
	var req syncHolidaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := commands.Dispatch[holidaysapp.SyncHolidaysCommand, dto.HolidaySyncResult](c.Request.Context(), h.Commands, holidaysapp.SyncHolidaysCommand{Dates: req.Dates})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ HolidayHTTP = HolidayHandler{}
