package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edvin/dbaccess/internal/model"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteServiceError maps an engine error to its HTTP status.
func WriteServiceError(w http.ResponseWriter, err error) {
	WriteError(w, StatusFor(err), err.Error())
}

// StatusFor returns the HTTP status for an error returned by the core services.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrAlreadyExists), errors.Is(err, model.ErrInUse):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidScope), errors.Is(err, model.ErrInvalidPrivilege):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrConnectionFailure):
		return http.StatusServiceUnavailable
	case errors.Is(err, model.ErrNativeStatementFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
