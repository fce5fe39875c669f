// Package identity maps a verified token subject to the persisted account it names.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/upb/event-admin-api/auth"
	"github.com/upb/event-admin-api/models"
	"github.com/upb/event-admin-api/observability"
	"github.com/upb/event-admin-api/repositories"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Resolver looks up the account behind a token subject.
// It performs exactly one repository read per call and keeps no state between calls.
type Resolver struct {
	accounts repositories.AccountRepository
	metrics  *observability.Metrics
	tracer   trace.Tracer
	logger   *zap.Logger
}

// NewResolver creates a resolver. metrics may be nil.
func NewResolver(accounts repositories.AccountRepository, metrics *observability.Metrics, logger *zap.Logger) *Resolver {
	return &Resolver{
		accounts: accounts,
		metrics:  metrics,
		tracer:   observability.Tracer(),
		logger:   logger,
	}
}

// Resolve returns the identity projection of subject.
// A missing account yields an auth AccountNotFound error; any other failure is returned wrapped.
func (r *Resolver) Resolve(ctx context.Context, subject string) (*models.Identity, error) {
	ctx, span := r.tracer.Start(ctx, "identity.resolve",
		trace.WithAttributes(attribute.String("account.id", subject)))
	defer span.End()

	start := time.Now()
	identity, err := r.accounts.FindIdentity(ctx, subject)
	r.metrics.ObserveLookup(start)

	if errors.Is(err, repositories.ErrNotFound) {
		span.SetAttributes(attribute.Bool("account.found", false))
		return nil, auth.AccountNotFound(err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "account lookup failed")
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}

	span.SetAttributes(attribute.Bool("account.found", true))
	r.logger.Debug("identity resolved", zap.String("account_id", identity.ID))
	return identity, nil
}
