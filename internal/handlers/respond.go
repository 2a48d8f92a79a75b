package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"finance-tracker/internal/finance"
	"finance-tracker/internal/logging"
	"finance-tracker/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v before writing the header so an unencodable value is
// reported as a 500 instead of a truncated body.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "JSON encoding error",
			"method", r.Method, "path", r.URL.Path, "error", err)
		buf.Reset()
		buf.WriteString(`{"error":"Internal server error"}` + "\n")
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.FromContext(r.Context()).WarnContext(r.Context(), "Failed to write response", "error", err)
	}
}

// writeError maps err to a status code. Anything unrecognised is logged and
// reported as a 500 without details.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *finance.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: ve.Error()})
	case errors.Is(err, finance.ErrNotFound):
		writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "Not found"})
	case errors.Is(err, storage.ErrUsernameTaken):
		writeJSON(w, r, http.StatusConflict, errorResponse{Error: "Username already exists"})
	case errors.Is(err, finance.ErrRateUnavailable):
		logging.FromContext(r.Context()).WarnContext(r.Context(), "Exchange rate unavailable", "error", err)
		writeJSON(w, r, http.StatusBadGateway, errorResponse{Error: "Exchange rate unavailable, please try again later"})
	default:
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}
