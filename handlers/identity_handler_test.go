package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/upb/event-admin-api/middleware"
	"github.com/upb/event-admin-api/models"
	"go.uber.org/zap"
)

func requestWithIdentity(identity *middleware.Identity) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	}
	return req
}

func TestHandleMe(t *testing.T) {
	handler := NewIdentityHandler(zap.NewNop())

	t.Run("returns the resolved identity only", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.HandleMe(w, requestWithIdentity(&middleware.Identity{
			Subject: "u123",
			Role:    "staff",
			Account: &models.Identity{ID: "u123", Name: "Ursula", Email: "ursula@example.com"},
		}))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"id":"u123","name":"Ursula","email":"ursula@example.com"}}`, w.Body.String())
	})

	t.Run("falls back to the claim", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.HandleMe(w, requestWithIdentity(&middleware.Identity{Subject: "u123", Email: "u@example.com"}))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"id":"u123","name":"","email":"u@example.com"}}`, w.Body.String())
	})

	t.Run("no identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.HandleMe(w, requestWithIdentity(nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandleSession(t *testing.T) {
	handler := NewIdentityHandler(zap.NewNop())
	expiresAt := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)

	w := httptest.NewRecorder()
	handler.HandleSession(w, requestWithIdentity(&middleware.Identity{
		Subject:   "u123",
		Role:      "admin",
		Email:     "ada@example.com",
		ExpiresAt: expiresAt,
	}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"sub":"u123","role":"admin","email":"ada@example.com","expires_at":"2026-03-01T13:00:00Z","resolved":false}}`, w.Body.String())
}
