package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"wordscapes/internal/security"
	"wordscapes/internal/service"
	"wordscapes/internal/validation"
)

// AuthHandler handles account and session HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	csrf        *security.CSRFGenerator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, csrf *security.CSRFGenerator) *AuthHandler {
	return &AuthHandler{authService: authService, csrf: csrf}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new player account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFailure(w, http.StatusBadRequest, MsgInvalidRequest)
		return
	}

	user, err := h.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		var vErr validation.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondFailure(w, http.StatusBadRequest, vErr.Error())
		case errors.Is(err, service.ErrEmailTaken):
			respondFailure(w, http.StatusConflict, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, MsgInternalError, "Error registering user", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"user_id": user.ID,
		"name":    user.Name,
	})
}

// Login authenticates a user and sets the session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFailure(w, http.StatusBadRequest, MsgInvalidRequest)
		return
	}

	session, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondFailure(w, http.StatusUnauthorized, err.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, MsgInternalError, "Error logging in", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))

	csrfToken, err := h.csrf.GenerateToken(session.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, MsgInternalError, "Error generating CSRF token", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"user_id":    user.ID,
		"name":       user.Name,
		"csrf_token": csrfToken,
	})
}

// Logout deletes the session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		_ = h.authService.Logout(cookie.Value)
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Me returns the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondFailure(w, http.StatusUnauthorized, MsgNotAuthenticated)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"user_id": user.ID,
		"email":   user.Email,
		"name":    user.Name,
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if token, err := h.csrf.GenerateToken(cookie.Value); err == nil {
			response["csrf_token"] = token
		}
	}

	writeJSON(w, http.StatusOK, response)
}
