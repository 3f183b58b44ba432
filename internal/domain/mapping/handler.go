package mapping

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ayushterm/api/internal/platform/fhir"
	"github.com/ayushterm/api/pkg/pagination"
)

// Handler provides REST and FHIR endpoints for concept mappings.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers mapping routes on the API and FHIR groups.
func (h *Handler) RegisterRoutes(api *echo.Group, fhirGroup *echo.Group) {
	api.GET("/mappings", h.ListMappings)
	api.GET("/mappings/:system", h.ListSystemMappings)
	api.GET("/resolve/:system/:code", h.ResolveCode)

	fhirGroup.POST("/ConceptMap/$translate", h.Translate)
}

// ListMappings handles GET /api/v1/mappings with optional system,
// min_confidence, and equivalence filters.
func (h *Handler) ListMappings(c echo.Context) error {
	params := pagination.FromContext(c)

	minConfidence, _ := strconv.ParseFloat(c.QueryParam("min_confidence"), 64)
	filter := ListFilter{
		System:        c.QueryParam("system"),
		MinConfidence: minConfidence,
		Equivalence:   c.QueryParam("equivalence"),
		Limit:         params.Limit,
		Offset:        params.Offset,
	}

	results, total, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		status, outcome := fhir.ErrorResponse(err)
		return c.JSON(status, outcome)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(results, total, filter.Limit, filter.Offset))
}

// ListSystemMappings handles GET /api/v1/mappings/:system.
func (h *Handler) ListSystemMappings(c echo.Context) error {
	params := pagination.FromContext(c)

	results, err := h.svc.ListBySystem(c.Request().Context(), c.Param("system"), params.Limit, params.Offset)
	if err != nil {
		status, outcome := fhir.ErrorResponse(err)
		return c.JSON(status, outcome)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"system":   c.Param("system"),
		"mappings": results,
		"limit":    params.Limit,
		"offset":   params.Offset,
	})
}

// ResolveCode handles GET /api/v1/resolve/:system/:code.
func (h *Handler) ResolveCode(c echo.Context) error {
	results, err := h.svc.Resolve(c.Request().Context(), c.Param("code"), c.Param("system"))
	if err != nil {
		status, outcome := fhir.ErrorResponse(err)
		return c.JSON(status, outcome)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":     c.Param("code"),
		"system":   c.Param("system"),
		"mappings": results,
	})
}

// Translate handles POST /fhir/ConceptMap/$translate with a FHIR Parameters
// body.
func (h *Handler) Translate(c echo.Context) error {
	var params fhir.Parameters
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.InvalidOutcome("invalid Parameters body"))
	}

	out, err := h.svc.Translate(c.Request().Context(), &params)
	if err != nil {
		status, outcome := fhir.ErrorResponse(err)
		return c.JSON(status, outcome)
	}
	return c.JSON(http.StatusOK, out)
}
