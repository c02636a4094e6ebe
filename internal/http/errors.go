package httpx

import (
	"net/http"

	apperrors "github.com/WhisperedCloud/Job-portal-sub000/internal/errors"
)

// writeServiceError translates a service-layer error into a JSON error response.
// Validation errors become 400, missing records 404, lost status races 409,
// and everything else a generic 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsValidation(err):
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation_failed",
			Err:     err,
			Field:   apperrors.GetField(err),
		})
	case apperrors.IsNotFound(err):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
	case apperrors.IsConflict(err):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "conflict", Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: err})
	}
}
