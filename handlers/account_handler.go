package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/upb/event-admin-api/middleware"
	"github.com/upb/event-admin-api/models"
	"github.com/upb/event-admin-api/services"
	"github.com/upb/event-admin-api/utils"
	"go.uber.org/zap"
)

// AccountManager defines the admin operations on accounts
type AccountManager interface {
	Create(ctx context.Context, in services.CreateAccountInput) (*models.Account, error)
	UpdateRole(ctx context.Context, actorID, id string, role models.AccountRole) (*models.Account, error)
	UpdateStatus(ctx context.Context, actorID, id string, status models.AccountStatus) (*models.Account, error)
}

// CreateAccountRequest represents a request to create an account
type CreateAccountRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=admin staff"`
}

// UpdateRoleRequest represents a role change
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin staff"`
}

// UpdateStatusRequest represents a status change
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active blocked"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toAccountResponse(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID.String(),
		Name:      a.Name,
		Email:     a.Email,
		Role:      string(a.Role),
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// AccountHandler handles account administration requests
type AccountHandler struct {
	accounts AccountManager
	logger   *zap.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts AccountManager, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// HandleCreateAccount handles POST /api/v1/accounts
func (h *AccountHandler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	account, err := h.accounts.Create(r.Context(), services.CreateAccountInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.AccountRole(req.Role),
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("account created by admin",
		zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
		zap.String("actor", actorID(r)),
		zap.String("account_id", account.ID.String()))
	_ = utils.WriteCreated(w, toAccountResponse(account))
}

// HandleUpdateRole handles PATCH /api/v1/accounts/{id}/role
func (h *AccountHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoleRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	account, err := h.accounts.UpdateRole(r.Context(), actorID(r), chi.URLParam(r, "id"), models.AccountRole(req.Role))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, toAccountResponse(account))
}

// HandleUpdateStatus handles PATCH /api/v1/accounts/{id}/status
func (h *AccountHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	account, err := h.accounts.UpdateStatus(r.Context(), actorID(r), chi.URLParam(r, "id"), models.AccountStatus(req.Status))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, toAccountResponse(account))
}

func actorID(r *http.Request) string {
	if identity := middleware.GetIdentityFromContext(r.Context()); identity != nil {
		return identity.Subject
	}
	return ""
}
