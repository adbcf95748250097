package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"games_library/internal/services"
	"games_library/internal/storage/uploads"

	"github.com/go-chi/chi/v5"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrInvalidID  = errors.New("invalid id")
	ErrExists     = errors.New("already exists")
	ErrGetGames   = errors.New("failed to get games")
	ErrCreate     = errors.New("failed to create")
	ErrImport     = errors.New("failed to import")
	ErrUpdate     = errors.New("failed to update")
	ErrDelete     = errors.New("failed to delete")
	ErrUpload     = errors.New("failed to upload image")
	ErrEncoding   = errors.New("failed to encode")
)

// errorResponse is the body of every 4xx answer that carries field details.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

// writeError maps service errors onto status codes. Anything unexpected is
// logged and answered with fallback.
func writeError(w http.ResponseWriter, log *slog.Logger, op string, err error, fallback error) {
	var verr *services.ValidationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, log, http.StatusBadRequest, errorResponse{Error: services.ErrValidation.Error(), Fields: verr.Fields})
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrImageKind),
		errors.Is(err, uploads.ErrInvalidImage):
		writeJSON(w, log, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, ErrNotFound.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrExists):
		http.Error(w, ErrExists.Error(), http.StatusConflict)
	default:
		log.Error(fallback.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, fallback.Error(), http.StatusInternalServerError)
	}
}
