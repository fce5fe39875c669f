package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/event-admin-api/config"
	"github.com/upb/event-admin-api/models"
	"github.com/upb/event-admin-api/repositories"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CreateAccountInput holds the fields needed to create an account
type CreateAccountInput struct {
	Name     string
	Email    string
	Password string
	Role     models.AccountRole
}

// AccountService manages dashboard accounts
type AccountService struct {
	accounts   repositories.AccountRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(accounts repositories.AccountRepository, logger *zap.Logger) *AccountService {
	return &AccountService{
		accounts:   accounts,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
	}
}

// Create hashes the password and stores a new active account
func (s *AccountService) Create(ctx context.Context, in CreateAccountInput) (*models.Account, error) {
	if in.Role == "" {
		in.Role = models.RoleStaff
	}
	if !in.Role.Valid() {
		return nil, ErrInvalidRole.WithDetail("role", string(in.Role))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrInvalidInput.WithDetail("password", "must be at most 72 bytes")
		}
		return nil, WrapInternal("failed to hash password", err)
	}

	account := models.NewAccount(in.Name, in.Email, string(hash), in.Role)
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateEmail.Wrap(err)
		}
		return nil, WrapInternal("failed to create account", err)
	}

	s.logger.Info("account created",
		zap.String("account_id", account.ID.String()),
		zap.String("role", string(account.Role)))
	return account, nil
}

// UpdateRole changes the role of account id on behalf of actorID
func (s *AccountService) UpdateRole(ctx context.Context, actorID, id string, role models.AccountRole) (*models.Account, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole.WithDetail("role", string(role))
	}
	if sameAccount(actorID, id) {
		return nil, ErrSelfModification
	}

	if err := s.accounts.UpdateRole(ctx, id, role); err != nil {
		return nil, s.mapRepositoryError("failed to update role", err)
	}
	return s.get(ctx, id)
}

// UpdateStatus blocks or reactivates account id on behalf of actorID
func (s *AccountService) UpdateStatus(ctx context.Context, actorID, id string, status models.AccountStatus) (*models.Account, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus.WithDetail("status", string(status))
	}
	if sameAccount(actorID, id) {
		return nil, ErrSelfModification
	}

	if err := s.accounts.UpdateStatus(ctx, id, status); err != nil {
		return nil, s.mapRepositoryError("failed to update status", err)
	}
	return s.get(ctx, id)
}

// sameAccount compares ids by value, so uppercase, braced and urn:uuid forms
// of the same UUID are one account
func sameAccount(a, b string) bool {
	ua, err := uuid.Parse(a)
	if err != nil {
		return a == b
	}
	ub, err := uuid.Parse(b)
	if err != nil {
		return false
	}
	return ua == ub
}

func (s *AccountService) get(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepositoryError("failed to load account", err)
	}
	return account, nil
}

func (s *AccountService) mapRepositoryError(message string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrAccountNotFound
	}
	return WrapInternal(message, err)
}

// EnsureBootstrapAdmin seeds the configured admin account into an empty store.
// Once any account exists it does nothing. It reports whether an account was created.
func (s *AccountService) EnsureBootstrapAdmin(ctx context.Context, cfg config.BootstrapConfig) (bool, error) {
	if cfg.AdminEmail == "" {
		return false, nil
	}

	count, err := s.accounts.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count accounts: %w", err)
	}
	if count > 0 {
		s.logger.Debug("account store not empty, skipping bootstrap admin", zap.Int("accounts", count))
		return false, nil
	}

	if _, err := s.Create(ctx, CreateAccountInput{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Role:     models.RoleAdmin,
	}); err != nil {
		return false, fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	s.logger.Info("bootstrap admin created", zap.String("email", models.NormalizeEmail(cfg.AdminEmail)))
	return true, nil
}
