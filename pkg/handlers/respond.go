package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/de-tools/queue-atlas/pkg/models/api"
	"github.com/rs/zerolog"
)

// WriteJSON encodes body with the given status.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

// WriteError logs err and answers with {"error": message}.
func WriteError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	event := zerolog.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = zerolog.Ctx(r.Context()).Error()
	}
	event.Err(err).Int("status", status).Msg(message)

	WriteJSON(w, r, status, api.ErrorResponse{Error: message})
}
