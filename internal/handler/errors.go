package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tripfolio/tripfolio/internal/domain"
)

// ErrorResponse is the JSON body returned for every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code plus a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// respondError maps domain sentinel errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body; the real error goes to the log,
// not the client.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "not_authenticated", "sign in with Google to sync")
	case errors.Is(err, domain.ErrSyncBusy):
		writeError(w, http.StatusConflict, "sync_busy", "a sync is already running")
	case errors.Is(err, domain.ErrNoPendingConflicts):
		writeError(w, http.StatusConflict, "no_pending_conflicts", "there are no conflicts to resolve")
	case errors.Is(err, domain.ErrNoRemoteFile):
		writeError(w, http.StatusNotFound, "no_remote_file", "no trip file found in Google Drive")
	case errors.Is(err, domain.ErrCorruptDocument):
		writeError(w, http.StatusBadGateway, "corrupt_remote", "the remote trip file could not be read")
	default:
		slog.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}

// decodeBody decodes a JSON request body into v, rejecting unknown fields so
// client typos fail loudly instead of being silently dropped.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}
