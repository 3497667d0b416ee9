package handlers

import (
	"net/http"
	"strings"

	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/AnshRaj112/promisu-backend/internal/services"
)

// SigninRequest is the body of POST /api/auth/signin.
type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CheckUsernameRequest for username availability
type CheckUsernameRequest struct {
	Username string `json:"username"`
}

// Signup handles privacy-first user registration
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req services.SignupInput
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, user, err := h.Auth.Signup(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Account created successfully", envelope{
		"token": sess.Token,
		"user":  user,
	})
}

func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeFailure(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	sess, user, err := h.Auth.Signin(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Signed in successfully", envelope{
		"token": sess.Token,
		"user":  user,
	})
}

func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) {
	sess := models.Session{Token: extractBearerToken(r.Header.Get("Authorization"))}
	if err := h.Auth.Signout(r.Context(), sess); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Signed out", nil)
}

// Me returns the signed-in user's public profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	user, err := h.Auth.Me(r.Context(), sess)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"user": user})
}

// CheckUsername checks if a username is available
func (h *Handler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	var req CheckUsernameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	available, err := h.Auth.UsernameAvailable(r.Context(), req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	message := "Username is available"
	if !available {
		message = "Username is already taken"
	}
	writeSuccess(w, http.StatusOK, message, envelope{
		"available": available,
		"username":  req.Username,
	})
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	settings, err := h.Auth.Settings(r.Context(), sess)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"settings": settings})
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	// Fields missing from the body keep their current value.
	req, err := h.Auth.Settings(r.Context(), sess)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	settings, err := h.Auth.UpdateSettings(r.Context(), sess, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Settings updated", envelope{"settings": settings})
}
