package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/michela/coach/internal/model"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteError writes a standardized error response
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Code:    statusCode,
		Message: message,
	})
}

// WriteBadRequest writes a 400 Bad Request response
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// WriteNotFound writes a 404 Not Found response
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// WriteInternalError writes a 500 Internal Server Error response
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// WriteServiceError maps the model error taxonomy onto a status code:
// validation 400, not found 404, upstream 502, anything else 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	var ve model.ValidationError
	var ne model.NotFoundError
	var ue model.UpstreamError
	switch {
	case errors.As(err, &ve):
		WriteBadRequest(w, ve.Error())
	case errors.As(err, &ne):
		WriteNotFound(w, ne.Error())
	case errors.As(err, &ue):
		log.Error().Stack().Err(err).Str("upstream", ue.Service).Msg("upstream failure")
		WriteError(w, http.StatusBadGateway, ue.Error())
	default:
		log.Error().Stack().Err(err).Msg("request failed")
		WriteInternalError(w, err.Error())
	}
}
