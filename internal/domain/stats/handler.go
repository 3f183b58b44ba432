package stats

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ayushterm/api/internal/platform/fhir"
)

// Handler exposes the statistics endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the statistics routes on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/statistics", h.Summarize)
}

// Summarize handles GET /api/v1/statistics.
func (h *Handler) Summarize(c echo.Context) error {
	report, err := h.svc.Summarize(c.Request().Context())
	if err != nil {
		status, outcome := fhir.ErrorResponse(err)
		return c.JSON(status, outcome)
	}
	return c.JSON(http.StatusOK, report)
}
