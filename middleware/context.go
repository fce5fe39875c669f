package middleware

import (
	"context"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/event-admin-api/auth"
	"github.com/upb/event-admin-api/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for the verified token claims
	ClaimsKey contextKey = "claims"

	// IdentityKey is the context key for the request identity
	IdentityKey contextKey = "identity"
)

// Identity is what the gate attaches to a request it lets through.
// Account is set only when the gate resolved the subject against the account store;
// Role then holds the stored role rather than the one in the token.
type Identity struct {
	Subject   string
	Role      string
	Email     string
	TokenID   string
	ExpiresAt time.Time
	Account   *models.Identity
}

// Resolved reports whether the identity was checked against the account store
func (i *Identity) Resolved() bool {
	return i.Account != nil
}

// Blocked reports whether the resolved account is blocked
func (i *Identity) Blocked() bool {
	return i.Account != nil && i.Account.Status == models.StatusBlocked
}

// HasRole reports whether the identity holds one of roles. Blocked accounts hold none.
func (i *Identity) HasRole(roles ...string) bool {
	if i.Blocked() {
		return false
	}
	for _, role := range roles {
		if i.Role == role {
			return true
		}
	}
	return false
}

// GetRequestIDFromContext retrieves the request ID set by chi's RequestID middleware
func GetRequestIDFromContext(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// GetClaimsFromContext retrieves the verified token claims from context
func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if val := ctx.Value(ClaimsKey); val != nil {
		if claims, ok := val.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// WithClaims adds verified token claims to the context
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetIdentityFromContext retrieves the request identity from context
func GetIdentityFromContext(ctx context.Context) *Identity {
	if val := ctx.Value(IdentityKey); val != nil {
		if identity, ok := val.(*Identity); ok {
			return identity
		}
	}
	return nil
}

// WithIdentity adds the request identity to the context
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}
