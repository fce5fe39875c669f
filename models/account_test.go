package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	account := NewAccount("  Dana Staff ", " Dana@Example.COM ", "hash", RoleStaff)

	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.Equal(t, "Dana Staff", account.Name)
	assert.Equal(t, "dana@example.com", account.Email)
	assert.Equal(t, StatusActive, account.Status)
	assert.True(t, account.IsActive())
	assert.False(t, account.IsAdmin())
	assert.Equal(t, account.CreatedAt, account.UpdatedAt)
}

func TestAccountIdentityProjection(t *testing.T) {
	account := NewAccount("Ada Admin", "ada@example.com", "$2a$10$secret", RoleAdmin)

	identity := account.Identity()
	assert.Equal(t, account.ID.String(), identity.ID)
	assert.Equal(t, "Ada Admin", identity.Name)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.Equal(t, RoleAdmin, identity.Role)
	assert.Equal(t, StatusActive, identity.Status)

	body, err := json.Marshal(identity)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+account.ID.String()+`","name":"Ada Admin","email":"ada@example.com"}`, string(body))
}

func TestAccountJSONOmitsPasswordHash(t *testing.T) {
	account := NewAccount("Ada Admin", "ada@example.com", "$2a$10$secret", RoleAdmin)

	body, err := json.Marshal(account)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), "$2a$10$secret")
}

func TestRoleAndStatusValidity(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleStaff.Valid())
	assert.False(t, AccountRole("organizer").Valid())

	assert.True(t, StatusActive.Valid())
	assert.True(t, StatusBlocked.Valid())
	assert.False(t, AccountStatus("deleted").Valid())
}
