package fhir

import (
	"net/http"

	"github.com/ayushterm/api/pkg/apperr"
)

// ErrorResponse maps an application error to an HTTP status and an
// OperationOutcome body.
func ErrorResponse(err error) (int, *OperationOutcome) {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidArgument:
		return http.StatusBadRequest, InvalidOutcome(err.Error())
	case apperr.KindNotFound:
		return http.StatusNotFound, NewOperationOutcome("error", "not-found", err.Error())
	default:
		return http.StatusServiceUnavailable, UnavailableOutcome("storage unavailable")
	}
}
