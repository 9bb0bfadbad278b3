package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"artha/internal/core"
	"artha/internal/log"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode JSON response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// statusFor maps a service error onto an HTTP status and client-safe detail.
func statusFor(err error) (int, string) {
	var storeErr *core.StoreUnavailableError
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, core.ErrEmptyData):
		return http.StatusNotFound, "No expenses in that range."
	case errors.Is(err, core.ErrNoDiscretionary):
		return http.StatusBadRequest, "No discretionary spending found to cut."
	case core.IsValidationError(err):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.As(err, &storeErr):
		return http.StatusServiceUnavailable, "record store unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// writeError logs err and writes the mapped status with a {"detail": ...} body.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, detail := statusFor(err)
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	fields := log.NewFields().WithOperation(op).WithError(err)
	fields[log.FieldPath] = r.URL.Path
	log.FromContext(r.Context()).Log(r.Context(), level, "Request failed", fields.ToSlice()...)
	writeDetail(w, status, detail)
}
