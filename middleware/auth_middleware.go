package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/upb/event-admin-api/auth"
	"github.com/upb/event-admin-api/models"
	"github.com/upb/event-admin-api/observability"
	"github.com/upb/event-admin-api/utils"
	"go.uber.org/zap"
)

// Mode selects what the gate attaches to a request
type Mode string

const (
	// ModeClaim attaches the verified token claim without touching the account store
	ModeClaim Mode = "claim"

	// ModeResolved additionally requires the subject to name an existing account
	ModeResolved Mode = "resolved"
)

// TokenVerifier validates an Authorization header value and returns its claims
type TokenVerifier interface {
	VerifyHeader(header string) (*auth.Claims, error)
}

// IdentityResolver maps a token subject to the account it names
type IdentityResolver interface {
	Resolve(ctx context.Context, subject string) (*models.Identity, error)
}

// GateOptions configures an AuthMiddleware
type GateOptions struct {
	// Mode is the mode used by RequireAuth
	Mode Mode

	// HideAccountExistence answers 401 instead of 404 when the account is gone
	HideAccountExistence bool

	// Revocations is consulted after verification when set
	Revocations auth.RevocationList

	Metrics *observability.Metrics
}

// AuthMiddleware is the authentication gate in front of protected routes.
// It holds only read-only collaborators, so one instance serves all requests concurrently.
type AuthMiddleware struct {
	verifier    TokenVerifier
	resolver    IdentityResolver
	revocations auth.RevocationList
	metrics     *observability.Metrics
	mode        Mode
	hideMissing bool
	logger      *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware.
// resolver may be nil only when no route uses ModeResolved.
func NewAuthMiddleware(verifier TokenVerifier, resolver IdentityResolver, opts GateOptions, logger *zap.Logger) (*AuthMiddleware, error) {
	if verifier == nil {
		return nil, fmt.Errorf("token verifier is required")
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeResolved
	}
	if mode != ModeClaim && mode != ModeResolved {
		return nil, fmt.Errorf("unknown gate mode %q", mode)
	}
	if mode == ModeResolved && resolver == nil {
		return nil, fmt.Errorf("gate mode %q needs an identity resolver", mode)
	}

	return &AuthMiddleware{
		verifier:    verifier,
		resolver:    resolver,
		revocations: opts.Revocations,
		metrics:     opts.Metrics,
		mode:        mode,
		hideMissing: opts.HideAccountExistence,
		logger:      logger,
	}, nil
}

// Mode returns the default mode used by RequireAuth
func (m *AuthMiddleware) Mode() Mode {
	return m.mode
}

// RequireAuth gates next using the configured default mode
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return m.Require(m.mode)(next)
}

// Require returns a gate that uses mode regardless of the default.
// It panics when mode is ModeResolved and the middleware has no resolver.
func (m *AuthMiddleware) Require(mode Mode) func(http.Handler) http.Handler {
	if mode == ModeResolved && m.resolver == nil {
		panic("middleware: ModeResolved requires an identity resolver")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			claims, err := m.verifier.VerifyHeader(r.Header.Get("Authorization"))
			if err != nil {
				m.reject(w, requestID, err)
				return
			}

			if m.revocations != nil {
				revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
				if err != nil {
					m.fail(w, requestID, "revocation lookup failed", err)
					return
				}
				if revoked {
					m.metrics.RecordDecision(observability.OutcomeRevoked)
					m.logger.Warn("revoked token presented",
						zap.String("request_id", requestID),
						zap.String("sub", claims.Subject),
						zap.String("jti", claims.ID))
					_ = utils.WriteUnauthorized(w, auth.MessageFor(auth.KindInvalidCredential))
					return
				}
			}

			identity := &Identity{
				Subject: claims.Subject,
				Role:    claims.Role,
				Email:   claims.Email,
				TokenID: claims.ID,
			}
			if claims.ExpiresAt != nil {
				identity.ExpiresAt = claims.ExpiresAt.Time
			}

			if mode == ModeResolved {
				account, err := m.resolver.Resolve(ctx, claims.Subject)
				if err != nil {
					if auth.KindOf(err) == auth.KindAccountNotFound {
						m.rejectMissingAccount(w, requestID, claims.Subject)
						return
					}
					m.fail(w, requestID, "identity lookup failed", err)
					return
				}
				identity.Account = account
				identity.Email = account.Email
				if account.Role != "" {
					identity.Role = string(account.Role)
				}
			}

			ctx = WithClaims(ctx, claims)
			ctx = WithIdentity(ctx, identity)

			m.metrics.RecordDecision(observability.OutcomeAllowed)
			m.logger.Debug("authentication successful",
				zap.String("request_id", requestID),
				zap.String("sub", claims.Subject),
				zap.String("mode", string(mode)))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// reject answers a verification failure with 401
func (m *AuthMiddleware) reject(w http.ResponseWriter, requestID string, err error) {
	kind := auth.KindOf(err)
	switch kind {
	case auth.KindMissingCredential:
		m.metrics.RecordDecision(observability.OutcomeMissingCredential)
	default:
		kind = auth.KindInvalidCredential
		m.metrics.RecordDecision(observability.OutcomeInvalidCredential)
	}

	m.logger.Warn("token validation failed",
		zap.String("request_id", requestID),
		zap.String("kind", string(kind)),
		zap.Bool("expired", auth.IsExpired(err)),
		zap.Error(err))
	_ = utils.WriteUnauthorized(w, auth.MessageFor(kind))
}

func (m *AuthMiddleware) rejectMissingAccount(w http.ResponseWriter, requestID, subject string) {
	m.metrics.RecordDecision(observability.OutcomeAccountNotFound)
	m.logger.Warn("token subject has no account",
		zap.String("request_id", requestID),
		zap.String("sub", subject))

	if m.hideMissing {
		_ = utils.WriteUnauthorized(w, auth.MessageFor(auth.KindInvalidCredential))
		return
	}
	_ = utils.WriteNotFound(w, auth.MessageFor(auth.KindAccountNotFound))
}

func (m *AuthMiddleware) fail(w http.ResponseWriter, requestID, msg string, err error) {
	m.metrics.RecordDecision(observability.OutcomeError)
	m.logger.Error(msg,
		zap.String("request_id", requestID),
		zap.Error(err))
	_ = utils.WriteInternalServerError(w, "")
}

// RequireRole is a middleware that requires one of roles on the request identity.
// It must run after the gate.
func (m *AuthMiddleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			identity := GetIdentityFromContext(ctx)
			if identity == nil {
				m.logger.Error("identity not found in context",
					zap.String("request_id", requestID))
				_ = utils.WriteUnauthorized(w, "Authentication required")
				return
			}

			if !identity.HasRole(roles...) {
				m.logger.Warn("insufficient permissions",
					zap.String("request_id", requestID),
					zap.String("sub", identity.Subject),
					zap.Strings("required_roles", roles),
					zap.String("role", identity.Role))
				_ = utils.WriteForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
