package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/event-admin-api/middleware"
	"github.com/upb/event-admin-api/models"
	"github.com/upb/event-admin-api/services"
	"go.uber.org/zap"
)

const adminSubject = "6a1c1f0e-0000-4000-8000-000000000001"

func adminRequest(method, target, body string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := middleware.WithIdentity(req.Context(), &middleware.Identity{Subject: adminSubject, Role: "admin"})

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func TestHandleCreateAccount(t *testing.T) {
	logger := zap.NewNop()

	t.Run("creates a staff account", func(t *testing.T) {
		mockSvc := new(MockAccountManager)
		handler := NewAccountHandler(mockSvc, logger)
		account := models.NewAccount("Dana", "dana@example.com", "hash", models.RoleStaff)

		mockSvc.On("Create", mock.Anything, services.CreateAccountInput{
			Name:     "Dana",
			Email:    "dana@example.com",
			Password: "long-password",
		}).Return(account, nil)

		w := httptest.NewRecorder()
		handler.HandleCreateAccount(w, adminRequest(http.MethodPost, "/api/v1/accounts",
			`{"name":"Dana","email":"dana@example.com","password":"long-password"}`, nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		var response struct {
			Data AccountResponse `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, account.ID.String(), response.Data.ID)
		assert.Equal(t, "staff", response.Data.Role)
		assert.Equal(t, "active", response.Data.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		mockSvc := new(MockAccountManager)
		handler := NewAccountHandler(mockSvc, logger)

		w := httptest.NewRecorder()
		handler.HandleCreateAccount(w, adminRequest(http.MethodPost, "/api/v1/accounts",
			`{"name":"Dana","email":"dana@example.com","password":"long-password","role":"owner"}`, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "role must be one of")
		mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email returns 409", func(t *testing.T) {
		mockSvc := new(MockAccountManager)
		handler := NewAccountHandler(mockSvc, logger)
		mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, services.ErrDuplicateEmail)

		w := httptest.NewRecorder()
		handler.HandleCreateAccount(w, adminRequest(http.MethodPost, "/api/v1/accounts",
			`{"name":"Dana","email":"dana@example.com","password":"long-password"}`, nil))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"message":"Email already registered"}`, w.Body.String())
	})
}

func TestHandleUpdateRole(t *testing.T) {
	logger := zap.NewNop()
	target := models.NewAccount("Dana", "dana@example.com", "hash", models.RoleAdmin)
	targetID := target.ID.String()

	t.Run("promotes account", func(t *testing.T) {
		mockSvc := new(MockAccountManager)
		handler := NewAccountHandler(mockSvc, logger)
		mockSvc.On("UpdateRole", mock.Anything, adminSubject, targetID, models.RoleAdmin).Return(target, nil)

		w := httptest.NewRecorder()
		handler.HandleUpdateRole(w, adminRequest(http.MethodPatch, "/api/v1/accounts/"+targetID+"/role",
			`{"role":"admin"}`, map[string]string{"id": targetID}))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"admin"`)
		mockSvc.AssertExpectations(t)
	})

	t.Run("self modification is forbidden", func(t *testing.T) {
		mockSvc := new(MockAccountManager)
		handler := NewAccountHandler(mockSvc, logger)
		mockSvc.On("UpdateRole", mock.Anything, adminSubject, adminSubject, models.RoleStaff).Return(nil, services.ErrSelfModification)

		w := httptest.NewRecorder()
		handler.HandleUpdateRole(w, adminRequest(http.MethodPatch, "/api/v1/accounts/"+adminSubject+"/role",
			`{"role":"staff"}`, map[string]string{"id": adminSubject}))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestHandleUpdateStatus(t *testing.T) {
	logger := zap.NewNop()

	t.Run("missing account returns 404", func(t *testing.T) {
		mockSvc := new(MockAccountManager)
		handler := NewAccountHandler(mockSvc, logger)
		mockSvc.On("UpdateStatus", mock.Anything, adminSubject, "missing", models.StatusBlocked).Return(nil, services.ErrAccountNotFound)

		w := httptest.NewRecorder()
		handler.HandleUpdateStatus(w, adminRequest(http.MethodPatch, "/api/v1/accounts/missing/status",
			`{"status":"blocked"}`, map[string]string{"id": "missing"}))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Account not found"}`, w.Body.String())
	})

	t.Run("status is validated", func(t *testing.T) {
		mockSvc := new(MockAccountManager)
		handler := NewAccountHandler(mockSvc, logger)

		w := httptest.NewRecorder()
		handler.HandleUpdateStatus(w, adminRequest(http.MethodPatch, "/api/v1/accounts/x/status",
			`{"status":"deleted"}`, map[string]string{"id": "x"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
