package server

import (
	"errors"
	"net/http"
	"strconv"

	"pearhub/analytics"
	"pearhub/storage"
	"pearhub/utils"

	log "github.com/sirupsen/logrus"
)

func sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(utils.ToJson(body)); err != nil {
		log.Errorf("Error writing response: %v", err)
	}
}

func sendError(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, map[string]string{"error": message})
}

// sendStorageError maps the storage error taxonomy onto HTTP statuses.
// Anything unrecognized is an internal error and gets logged.
func sendStorageError(w http.ResponseWriter, err error) {
	var (
		validationErr *storage.ValidationError
		conflictErr   *storage.ConflictError
		notFoundErr   *storage.NotFoundError
		invalidOpErr  *storage.InvalidOperationError
	)
	switch {
	case errors.As(err, &validationErr):
		sendError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &conflictErr):
		sendError(w, http.StatusConflict, conflictErr.Error())
	case errors.As(err, &notFoundErr):
		sendError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &invalidOpErr):
		sendError(w, http.StatusBadRequest, invalidOpErr.Error())
	default:
		log.Errorf("Error handling request: %v", err)
		sendError(w, http.StatusInternalServerError, "internal error")
	}
}

func getQueryInt(r *http.Request, name string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	return value, nil
}

// windowFromQuery reads the optional {type, month} pair. No month means an
// all-time aggregation.
func windowFromQuery(r *http.Request) (analytics.Window, error) {
	month := r.URL.Query().Get("month")
	if month == "" {
		return analytics.Window{}, nil
	}
	windowType := r.URL.Query().Get("type")
	if windowType == "" {
		windowType = "monthly"
	}
	return analytics.ParseWindow(windowType, month)
}
