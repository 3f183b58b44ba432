package encounter

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ayushterm/api/internal/platform/auth"
	"github.com/ayushterm/api/internal/platform/fhir"
	"github.com/ayushterm/api/pkg/apperr"
	"github.com/ayushterm/api/pkg/pagination"
)

// Handler exposes the encounter write path and audit reads.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers encounter routes on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/encounters", h.Ingest)
	api.GET("/encounters", h.List)
	api.GET("/encounters/:id", h.Get)
}

// Ingest handles POST /api/v1/encounters and responds 202 on success.
func (h *Handler) Ingest(c echo.Context) error {
	var req IngestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.InvalidOutcome("invalid request body"))
	}

	createdBy := auth.UserIDFromContext(c.Request().Context())
	rec, err := h.svc.Ingest(c.Request().Context(), req, createdBy)
	if err != nil {
		status, outcome := fhir.ErrorResponse(err)
		return c.JSON(status, outcome)
	}
	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"message": "Encounter recorded",
		"status":  "accepted",
		"id":      rec.ID,
	})
}

// List handles GET /api/v1/encounters.
func (h *Handler) List(c echo.Context) error {
	params := pagination.FromContext(c)

	records, err := h.svc.List(c.Request().Context(), params.Limit, params.Offset)
	if err != nil {
		status, outcome := fhir.ErrorResponse(err)
		return c.JSON(status, outcome)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"encounters": records,
		"limit":      params.Limit,
		"offset":     params.Offset,
	})
}

// Get handles GET /api/v1/encounters/:id.
func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, fhir.InvalidOutcome("invalid encounter record id"))
	}

	rec, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return c.JSON(http.StatusNotFound, fhir.NotFoundOutcome("EncounterRecord", id.String()))
		}
		status, outcome := fhir.ErrorResponse(err)
		return c.JSON(status, outcome)
	}
	return c.JSON(http.StatusOK, rec)
}
