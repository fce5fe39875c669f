package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/upb/event-admin-api/auth"
	"github.com/upb/event-admin-api/middleware"
	"github.com/upb/event-admin-api/services"
	"github.com/upb/event-admin-api/utils"
	"go.uber.org/zap"
)

// Authenticator defines the login and logout operations
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginUser is the account summary returned on login
type LoginUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	User      LoginUser `json:"user"`
}

// AuthHandler handles login and logout
type AuthHandler struct {
	auth   Authenticator
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authenticator Authenticator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   authenticator,
		logger: logger,
	}
}

// HandleLogin handles POST /api/v1/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, LoginResponse{
		Token:     result.Token,
		TokenType: "Bearer",
		ExpiresAt: result.ExpiresAt.UTC(),
		User: LoginUser{
			ID:    result.Account.ID.String(),
			Name:  result.Account.Name,
			Email: result.Account.Email,
			Role:  string(result.Account.Role),
		},
	})
}

// HandleLogout handles POST /api/v1/auth/logout
// Must be mounted behind the gate
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaimsFromContext(ctx)
	if claims == nil {
		h.logger.Error("claims not found in context",
			zap.String("request_id", middleware.GetRequestIDFromContext(ctx)))
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.auth.Logout(ctx, claims); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}
