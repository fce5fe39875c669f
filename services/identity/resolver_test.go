package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/event-admin-api/auth"
	"github.com/upb/event-admin-api/models"
	"github.com/upb/event-admin-api/observability"
	"github.com/upb/event-admin-api/repositories"
	"go.uber.org/zap"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindIdentity(ctx context.Context, id string) (*models.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *models.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) UpdateRole(ctx context.Context, id string, role models.AccountRole) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *MockAccountRepository) UpdateStatus(ctx context.Context, id string, status models.AccountStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockAccountRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("found account yields projection", func(t *testing.T) {
		repo := new(MockAccountRepository)
		metrics := observability.NewMetrics(prometheus.NewRegistry())
		resolver := NewResolver(repo, metrics, logger)

		expected := &models.Identity{ID: "u123", Name: "Ada", Email: "ada@example.com"}
		repo.On("FindIdentity", mock.Anything, "u123").Return(expected, nil).Once()

		identity, err := resolver.Resolve(ctx, "u123")
		require.NoError(t, err)
		assert.Equal(t, expected, identity)
		assert.Equal(t, 1, testutil.CollectAndCount(metrics.IdentityLookup))
		repo.AssertExpectations(t)
	})

	t.Run("missing account is AccountNotFound", func(t *testing.T) {
		repo := new(MockAccountRepository)
		resolver := NewResolver(repo, nil, logger)
		repo.On("FindIdentity", mock.Anything, "u999").Return(nil, repositories.ErrNotFound).Once()

		identity, err := resolver.Resolve(ctx, "u999")
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, auth.ErrAccountNotFound)
		assert.Equal(t, auth.KindAccountNotFound, auth.KindOf(err))
		repo.AssertExpectations(t)
	})

	t.Run("store failure is not an auth error", func(t *testing.T) {
		repo := new(MockAccountRepository)
		resolver := NewResolver(repo, nil, logger)
		cause := errors.New("connection refused")
		repo.On("FindIdentity", mock.Anything, "u123").Return(nil, cause).Once()

		_, err := resolver.Resolve(ctx, "u123")
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, auth.ErrorKind(""), auth.KindOf(err))
	})
}
