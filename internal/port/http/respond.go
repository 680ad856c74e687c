package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/loopify/deal-service/internal/domain/entity"
	"github.com/loopify/deal-service/internal/platform/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}, log logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

// writeDomainError maps domain sentinel errors to HTTP statuses. Anything
// unmatched is an internal error and its detail stays out of the response.
func writeDomainError(w http.ResponseWriter, err error, log logger.Logger) {
	var status int
	switch {
	case errors.Is(err, entity.ErrListingNotFound),
		errors.Is(err, entity.ErrOrderNotFound),
		errors.Is(err, entity.ErrNotificationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrNotAuthorized):
		status = http.StatusForbidden
	case errors.Is(err, entity.ErrSelfOrder),
		errors.Is(err, entity.ErrDuplicateOrder),
		errors.Is(err, entity.ErrDuplicateReport):
		status = http.StatusConflict
	case errors.Is(err, entity.ErrInvalidTransition),
		errors.Is(err, entity.ErrInvalidDeleteState),
		errors.Is(err, entity.ErrInvalidPrice),
		errors.Is(err, entity.ErrInvalidReport):
		status = http.StatusBadRequest
	case errors.Is(err, entity.ErrMissingSeller):
		// Distinct from a plain 500 so the client can explain the data
		// problem instead of showing a generic failure.
		status = http.StatusUnprocessableEntity
	default:
		log.Errorf("Unhandled error reached the HTTP boundary: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"}, log)
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()}, log)
}
