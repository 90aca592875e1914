package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"wealthify/internal/api"
	"wealthify/internal/log"
)

// errorBody is the JSON error envelope every non-2xx response carries.
type errorBody struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response body", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Type: errType, Message: message}})
}

// writeValidationError answers 422 with the per-field problem map.
func writeValidationError(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorEnvelope{Error: errorBody{
		Type:    log.ErrorTypeValidation,
		Message: "validation failed",
		Fields:  fields,
	}})
}

// writeServiceError maps collaborator client errors onto the envelope.
// Transport failures surface as 502 so the caller knows local state is
// intact and the operation can be retried.
func writeServiceError(w http.ResponseWriter, err error) {
	var transport *api.TransportError
	var status *api.StatusError

	switch {
	case errors.Is(err, api.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, log.ErrorTypeAuth, "session expired or missing, log in again")
	case errors.As(err, &transport):
		writeError(w, http.StatusBadGateway, log.ErrorTypeTransport, "could not reach the backend, try again")
	case errors.As(err, &status):
		msg := status.Detail
		if msg == "" {
			msg = http.StatusText(status.Status)
		}
		writeError(w, status.Status, errorTypeForStatus(status.Status), msg)
	default:
		writeError(w, http.StatusInternalServerError, log.ErrorTypeInternal, "internal error")
	}
}

func errorTypeForStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return log.ErrorTypeNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return log.ErrorTypeAuth
	case status >= 400 && status < 500:
		return log.ErrorTypeValidation
	default:
		return log.ErrorTypeInternal
	}
}
