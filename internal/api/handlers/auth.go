package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/dom/media-tracker/internal/api/middleware"
	"github.com/dom/media-tracker/internal/domain"
	"github.com/dom/media-tracker/internal/service"
)

// CookieConfig controls the attributes of the session cookie.
type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

type AuthHandler struct {
	authService *service.AuthService
	cookie      CookieConfig
}

func NewAuthHandler(authService *service.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// UserResponse is the public view of a user with a status message.
type UserResponse struct {
	Message string `json:"message"`
	domain.Identity
}

type CheckResponse struct {
	Message string          `json:"message"`
	User    domain.Identity `json:"user"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupInput
	if err := readJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	result, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		h.writeAuthError(w, r, err, "signup")
		return
	}

	h.setSessionCookie(w, result.Token, result.ExpiresAt)
	writeJSON(w, http.StatusCreated, UserResponse{
		Message:  "User created successfully.",
		Identity: result.User.Identity(),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginInput
	if err := readJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		h.writeAuthError(w, r, err, "login")
		return
	}

	h.setSessionCookie(w, result.Token, result.ExpiresAt)
	writeJSON(w, http.StatusOK, UserResponse{
		Message:  "Login successful.",
		Identity: result.User.Identity(),
	})
}

// Logout clears the cookie whether or not the request carried a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			internalError(r.Context(), w, err, "logout")
			return
		}
	}

	h.clearSessionCookie(w)
	writeMessage(w, http.StatusOK, "Logged out successfully.")
}

func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized access. (No token)")
		return
	}

	writeJSON(w, http.StatusOK, CheckResponse{Message: "Protected route.", User: identity})
}

func (h *AuthHandler) writeAuthError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		writeMessage(w, http.StatusBadRequest, "All fields are required.")
	case errors.Is(err, service.ErrPasswordTooShort):
		writeMessage(w, http.StatusBadRequest, "Password must be at least 8 characters.")
	case errors.Is(err, service.ErrEmailInUse):
		writeMessage(w, http.StatusBadRequest, "Email is already in use.")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeMessage(w, http.StatusBadRequest, "Invalid credentials.")
	default:
		internalError(r.Context(), w, err, op)
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
