package reporting

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/opticrm/opticrm/internal/domain/record"
)

type Handler struct {
	svc *Service
	log zerolog.Logger
}

func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/reports/daily", h.Daily)
}

// Daily serves GET /reports/daily?date=yyyy-MM-dd. The date defaults to
// today when omitted.
func (h *Handler) Daily(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().Format(record.DateLayout)
	}
	if _, err := time.Parse(record.DateLayout, date); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be yyyy-MM-dd")
	}

	report, err := h.svc.Daily(c.Request().Context(), date)
	if err != nil {
		if errors.Is(err, ErrNoRecords) {
			return echo.NewHTTPError(http.StatusNotFound, "no records found")
		}
		h.log.Error().Err(err).Str("date", date).Msg("daily report failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "could not build report")
	}
	return c.JSON(http.StatusOK, report)
}
