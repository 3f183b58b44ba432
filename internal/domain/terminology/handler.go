package terminology

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ayushterm/api/internal/domain/mapping"
	"github.com/ayushterm/api/internal/platform/fhir"
	"github.com/ayushterm/api/pkg/apperr"
	"github.com/ayushterm/api/pkg/pagination"
)

// Handler provides REST and FHIR endpoints for terminology search and lookup.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers terminology routes on the API and FHIR groups.
func (h *Handler) RegisterRoutes(api *echo.Group, fhirGroup *echo.Group) {
	api.GET("/search", h.Search)
	api.GET("/systems/:system/concepts", h.BrowseBySystem)
	api.GET("/systems/:system/concepts/:code", h.Lookup)
	api.GET("/validate/:system/:code", h.Validate)
	api.GET("/icd11/:code", h.LookupICD11)

	fhirGroup.GET("/CodeSystem", h.SearchCodeSystems)
	fhirGroup.GET("/CodeSystem/namaste", h.CodeSystem)
	fhirGroup.POST("/CodeSystem/$lookup", h.FHIRLookup)
}

// Search handles GET /api/v1/search?q=...&system=...
func (h *Handler) Search(c echo.Context) error {
	params := pagination.FromContext(c)

	results, err := h.svc.Search(c.Request().Context(), c.QueryParam("q"), c.QueryParam("system"), params.Limit)
	if err != nil {
		status, outcome := fhir.ErrorResponse(err)
		return c.JSON(status, outcome)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"query":   c.QueryParam("q"),
		"results": results,
		"count":   len(results),
	})
}

// BrowseBySystem handles GET /api/v1/systems/:system/concepts with pagination.
func (h *Handler) BrowseBySystem(c echo.Context) error {
	params := pagination.FromContext(c)

	items, total, err := h.svc.BrowseBySystem(c.Request().Context(), c.Param("system"), params.Limit, params.Offset)
	if err != nil {
		status, outcome := fhir.ErrorResponse(err)
		return c.JSON(status, outcome)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, params.Limit, params.Offset))
}

// Lookup handles GET /api/v1/systems/:system/concepts/:code.
func (h *Handler) Lookup(c echo.Context) error {
	concept, err := h.svc.Lookup(c.Request().Context(), c.Param("system"), c.Param("code"))
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return c.JSON(http.StatusNotFound, fhir.NotFoundOutcome("Concept", c.Param("code")))
		}
		status, outcome := fhir.ErrorResponse(err)
		return c.JSON(status, outcome)
	}
	return c.JSON(http.StatusOK, concept)
}

// Validate handles GET /api/v1/validate/:system/:code.
func (h *Handler) Validate(c echo.Context) error {
	valid, display, err := h.svc.Validate(c.Request().Context(), c.Param("system"), c.Param("code"))
	if err != nil {
		status, outcome := fhir.ErrorResponse(err)
		return c.JSON(status, outcome)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"system":  c.Param("system"),
		"code":    c.Param("code"),
		"valid":   valid,
		"display": display,
	})
}

// LookupICD11 handles GET /api/v1/icd11/:code.
func (h *Handler) LookupICD11(c echo.Context) error {
	entry, err := h.svc.LookupICD11(c.Request().Context(), c.Param("code"))
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return c.JSON(http.StatusNotFound, fhir.NotFoundOutcome("ICD11Code", c.Param("code")))
		}
		status, outcome := fhir.ErrorResponse(err)
		return c.JSON(status, outcome)
	}
	return c.JSON(http.StatusOK, entry)
}

// SearchCodeSystems handles GET /fhir/CodeSystem as a FHIR search, returning
// a searchset bundle. The server hosts a single CodeSystem resource.
func (h *Handler) SearchCodeSystems(c echo.Context) error {
	cs, err := h.svc.CodeSystem(c.Request().Context())
	if err != nil {
		status, outcome := fhir.ErrorResponse(err)
		return c.JSON(status, outcome)
	}

	bundle := fhir.NewSearchSetBundle(1)
	for _, link := range pagination.FromContext(c).FHIRLinks(c.Path(), 1) {
		bundle.Link = append(bundle.Link, fhir.BundleLink{Relation: link.Relation, URL: link.URL})
	}
	bundle.AddEntry("CodeSystem/namaste-terminology", cs)
	return c.JSON(http.StatusOK, bundle)
}

// CodeSystem handles GET /fhir/CodeSystem/namaste.
func (h *Handler) CodeSystem(c echo.Context) error {
	cs, err := h.svc.CodeSystem(c.Request().Context())
	if err != nil {
		status, outcome := fhir.ErrorResponse(err)
		return c.JSON(status, outcome)
	}
	return c.JSON(http.StatusOK, cs)
}

// FHIRLookup handles POST /fhir/CodeSystem/$lookup with a FHIR Parameters
// body naming system and code.
func (h *Handler) FHIRLookup(c echo.Context) error {
	var params fhir.Parameters
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.InvalidOutcome("invalid Parameters body"))
	}

	systemURI := params.String("system")
	code := params.String("code")
	if systemURI == "" || code == "" {
		return c.JSON(http.StatusBadRequest, fhir.InvalidOutcome("parameters 'system' and 'code' are required"))
	}

	system := mapping.SystemFromURI(systemURI)
	if system == "" {
		return c.JSON(http.StatusBadRequest, fhir.InvalidOutcome("unsupported system: "+systemURI))
	}

	concept, err := h.svc.Lookup(c.Request().Context(), system, code)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return c.JSON(http.StatusNotFound, fhir.NotFoundOutcome("Concept", code))
		}
		status, outcome := fhir.ErrorResponse(err)
		return c.JSON(status, outcome)
	}

	out := fhir.NewParameters().
		Add(fhir.Parameter{Name: "name", ValueString: "NAMASTE Terminology"}).
		Add(fhir.Parameter{Name: "display", ValueString: concept.Display}).
		Add(fhir.Parameter{Name: "system", ValueUri: SystemURI(concept.System)})
	if concept.NativeTerm != "" {
		out.Add(fhir.Parameter{Name: "designation", Part: []fhir.Parameter{
			{Name: "value", ValueString: concept.NativeTerm},
		}})
	}
	return c.JSON(http.StatusOK, out)
}
