// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/curatehq/curate/application/service"
	"github.com/curatehq/curate/infrastructure/api/jsonapi"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError maps a coordinator error to an HTTP status and writes a JSON:API
// error document. Unmapped errors are logged with full detail and surface as
// a generic 500, never leaking store internals.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status, detail := statusFor(err)

	if status == http.StatusInternalServerError {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}

	doc := jsonapi.NewErrorResponse(jsonapi.NewError(
		strconv.Itoa(status),
		http.StatusText(status),
		detail,
	))
	WriteJSON(w, status, doc)
}

// statusFor translates the coordinator error taxonomy. The returned detail is
// safe to show to clients.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "you do not own this resource"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrSourceNotFound):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, service.ErrEmbeddingUnavailable),
		errors.Is(err, service.ErrStoreUnavailable),
		errors.Is(err, service.ErrClientClosed):
		return http.StatusServiceUnavailable, "service temporarily unavailable"
	}
	return http.StatusInternalServerError, "internal server error"
}
