package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/upb/event-admin-api/auth"
	"github.com/upb/event-admin-api/models"
	"github.com/upb/event-admin-api/observability"
	"github.com/upb/event-admin-api/repositories"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// equalizeTiming runs a bcrypt comparison so unknown emails cost as much as wrong passwords
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("placeholder-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// LoginResult is a freshly issued access token and the account it was issued to
type LoginResult struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
	Account   *models.Account
}

// AuthService handles login and logout
type AuthService struct {
	accounts    repositories.AccountRepository
	tokens      *auth.TokenService
	revocations auth.RevocationList
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	accounts repositories.AccountRepository,
	tokens *auth.TokenService,
	revocations auth.RevocationList,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		accounts:    accounts,
		tokens:      tokens,
		revocations: revocations,
		metrics:     metrics,
		logger:      logger,
	}
}

// Login checks email and password and issues an access token.
// Unknown emails, wrong passwords and blocked accounts all return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			equalizeTiming(password)
			s.metrics.RecordLogin(observability.LoginInvalidCredentials)
			return nil, ErrInvalidCredentials
		}
		s.metrics.RecordLogin(observability.LoginError)
		return nil, WrapInternal("failed to load account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.metrics.RecordLogin(observability.LoginInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	if !account.IsActive() {
		s.logger.Info("login refused for blocked account", zap.String("account_id", account.ID.String()))
		s.metrics.RecordLogin(observability.LoginInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	issued, err := s.tokens.Issue(auth.Principal{
		Subject: account.ID.String(),
		Role:    string(account.Role),
		Email:   account.Email,
	})
	if err != nil {
		s.metrics.RecordLogin(observability.LoginError)
		return nil, WrapInternal("failed to issue token", err)
	}

	s.metrics.RecordLogin(observability.LoginSuccess)
	s.logger.Info("login succeeded",
		zap.String("account_id", account.ID.String()),
		zap.String("role", string(account.Role)))

	return &LoginResult{
		Token:     issued.Token,
		TokenID:   issued.ID,
		ExpiresAt: issued.ExpiresAt,
		Account:   account,
	}, nil
}

// Logout revokes the presented token until it would have expired
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}

	var until time.Time
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}

	if err := s.revocations.Revoke(ctx, claims.ID, until); err != nil {
		return WrapInternal("failed to revoke token", err)
	}

	s.logger.Info("token revoked", zap.String("account_id", claims.Subject), zap.String("jti", claims.ID))
	return nil
}
