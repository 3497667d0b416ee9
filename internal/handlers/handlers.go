// Package handlers exposes the services over HTTP with JSON envelopes of the
// form {"success": bool, "message": string, ...}.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/AnshRaj112/promisu-backend/internal/logger"
	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/AnshRaj112/promisu-backend/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Handler carries the services behind every endpoint.
type Handler struct {
	Auth     *services.AuthService
	Promises *services.PromiseService
	Journal  *services.JournalService
	Daily    *services.DailyJournalService
	Hub      *services.RecordHub
}

// envelope is the JSON body of every response.
type envelope map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Debug("failed to write response", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, status int, message string, fields envelope) {
	body := envelope{"success": true, "message": message}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, status, body)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"success": false, "message": message})
}

// writeError maps a service error to its status code. Unexpected errors are
// logged and reported with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrInvalidTransition):
		writeFailure(w, http.StatusConflict, err.Error())
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, envelope{"success": false, "message": verr.Message, "field": verr.Field})
	case errors.Is(err, models.ErrInvalidInput):
		writeFailure(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotAuthenticated):
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeFailure(w, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, models.ErrNotFound):
		writeFailure(w, http.StatusNotFound, "Not found")
	case errors.Is(err, models.ErrUsernameTaken):
		writeFailure(w, http.StatusConflict, "Username is already taken")
	case errors.Is(err, models.ErrPromiseNotActive):
		writeFailure(w, http.StatusConflict, "Only active promises can be logged")
	case errors.Is(err, services.ErrUploadsDisabled), errors.Is(err, services.ErrNotesDisabled):
		writeFailure(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeFailure(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func extractBearerToken(authHeader string) string {
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// requireSession resolves the bearer token into a session, writing a 401
// when it is missing or stale.
func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (models.Session, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return models.Session{}, false
	}
	sess, err := h.Auth.Resolve(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return models.Session{}, false
	}
	return sess, true
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{"success": true, "status": "ok"})
}
