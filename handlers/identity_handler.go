package handlers

import (
	"net/http"
	"time"

	"github.com/upb/event-admin-api/middleware"
	"github.com/upb/event-admin-api/models"
	"github.com/upb/event-admin-api/utils"
	"go.uber.org/zap"
)

// SessionResponse describes the verified token of the caller
type SessionResponse struct {
	Subject   string    `json:"sub"`
	Role      string    `json:"role,omitempty"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	Resolved  bool      `json:"resolved"`
}

// IdentityHandler exposes the identity the gate attached to a request
type IdentityHandler struct {
	logger *zap.Logger
}

// NewIdentityHandler creates a new IdentityHandler
func NewIdentityHandler(logger *zap.Logger) *IdentityHandler {
	return &IdentityHandler{logger: logger}
}

// HandleMe handles GET /api/v1/me
func (h *IdentityHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r.Context())
	if identity == nil {
		h.logger.Error("identity not found in context",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())))
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	if identity.Account != nil {
		_ = utils.WriteOK(w, identity.Account)
		return
	}
	_ = utils.WriteOK(w, &models.Identity{ID: identity.Subject, Email: identity.Email})
}

// HandleSession handles GET /api/v1/session
func (h *IdentityHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r.Context())
	if identity == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	_ = utils.WriteOK(w, SessionResponse{
		Subject:   identity.Subject,
		Role:      identity.Role,
		Email:     identity.Email,
		ExpiresAt: identity.ExpiresAt.UTC(),
		Resolved:  identity.Resolved(),
	})
}
