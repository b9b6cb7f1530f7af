package record

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/opticrm/opticrm/internal/domain/patient"
)

type Handler struct {
	svc *Service
	log zerolog.Logger
}

func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/visits", h.SubmitVisit)
	api.GET("/patients/:id/records", h.ListPatientRecords)
	api.GET("/records/:id", h.GetRecord)
	api.DELETE("/records/:id", h.DeleteRecord)
	api.PUT("/records/:id/amount", h.ReviseAmount)
}

type visitResponse struct {
	Patient *patient.Patient `json:"patient"`
	Record  *ClinicalRecord  `json:"record"`
}

// SubmitVisit persists one form submission. Persistence failures surface as
// a single generic notice; the diagnostic detail goes to the log only.
func (h *Handler) SubmitVisit(c echo.Context) error {
	var draft VisitDraft
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rec, pat, err := h.svc.SubmitVisit(c.Request().Context(), &draft)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRecallPeriod):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, patient.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "selected patient not found")
		default:
			h.log.Error().Err(err).Msg("visit submission failed")
			return echo.NewHTTPError(http.StatusInternalServerError, "error saving record")
		}
	}
	return c.JSON(http.StatusCreated, visitResponse{Patient: pat, Record: rec})
}

func (h *Handler) ListPatientRecords(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	records, err := h.svc.ListByPatient(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load records")
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) GetRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.GetRecord(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load record")
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) DeleteRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteRecord(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete record")
	}
	return c.NoContent(http.StatusNoContent)
}

type reviseAmountRequest struct {
	Amount string `json:"amount"`
	Secret string `json:"secret"`
}

// ReviseAmount guards the one permitted mutation of a historical record.
func (h *Handler) ReviseAmount(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req reviseAmountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.svc.ReviseAmount(c.Request().Context(), id, req.Amount, req.Secret); err != nil {
		switch {
		case errors.Is(err, ErrSecretMismatch):
			return echo.NewHTTPError(http.StatusForbidden, "price revision refused")
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		default:
			h.log.Error().Err(err).Msg("price revision failed")
			return echo.NewHTTPError(http.StatusInternalServerError, "could not revise amount")
		}
	}
	return c.NoContent(http.StatusNoContent)
}
