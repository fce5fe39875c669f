package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/upb/event-admin-api/auth"
	"github.com/upb/event-admin-api/models"
	"github.com/upb/event-admin-api/services"
)

// MockAuthenticator is a mock implementation of Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LoginResult), args.Error(1)
}

func (m *MockAuthenticator) Logout(ctx context.Context, claims *auth.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

// MockAccountManager is a mock implementation of AccountManager
type MockAccountManager struct {
	mock.Mock
}

func (m *MockAccountManager) Create(ctx context.Context, in services.CreateAccountInput) (*models.Account, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountManager) UpdateRole(ctx context.Context, actorID, id string, role models.AccountRole) (*models.Account, error) {
	args := m.Called(ctx, actorID, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountManager) UpdateStatus(ctx context.Context, actorID, id string, status models.AccountStatus) (*models.Account, error) {
	args := m.Called(ctx, actorID, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}
