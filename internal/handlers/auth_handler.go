package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/eventplanner/backend/internal/auth"
	"github.com/eventplanner/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for account business logic.
type AuthService interface {
	// Method Signup validates the request and creates a user with the User role.
	//
	// Missing fields, a short password or a malformed email produce an apperrors.ErrValidation,
	// an already registered email an apperrors.ErrConflict.
	Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	// Method Login verifies the credentials and returns a signed access token with the user's role and name.
	//
	// Unknown email or wrong password produce an apperrors.ErrInvalidCredentials.
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error)
}

// AuthHandler handles signup and login requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
	tokenExpiry time.Duration
}

// NewAuthHandler creates a new auth handler.
// "tokenExpiry" sets the lifetime of the access token cookie.
func NewAuthHandler(authService AuthService, tokenExpiry time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		authService: authService,
		tokenExpiry: tokenExpiry,
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
}

// Signup handles POST /signup
// @Summary Sign up
// @Description Create a new account with the User role
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.SignupRequest true "Account details"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if _, err := h.authService.Signup(r.Context(), &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "Signup successful"})
}

// Login handles POST /login
// @Summary Log in
// @Description Verify credentials and return an access token, also set as the access_token cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResult
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(h.tokenExpiry.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	h.RespondJSON(w, http.StatusOK, result)
}
