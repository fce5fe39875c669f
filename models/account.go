package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AccountRole represents the dashboard role of an account
type AccountRole string

const (
	RoleAdmin AccountRole = "admin"
	RoleStaff AccountRole = "staff"
)

// Valid reports whether r is a known role
func (r AccountRole) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// AccountStatus represents whether an account may sign in
type AccountStatus string

const (
	StatusActive  AccountStatus = "active"
	StatusBlocked AccountStatus = "blocked"
)

// Valid reports whether s is a known status
func (s AccountStatus) Valid() bool {
	return s == StatusActive || s == StatusBlocked
}

// Account is a persisted staff or admin account
type Account struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	Name         string        `json:"name" db:"name"`
	Email        string        `json:"email" db:"email"`
	PasswordHash string        `json:"-" db:"password_hash"`
	Role         AccountRole   `json:"role" db:"role"`
	Status       AccountStatus `json:"status" db:"status"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// NewAccount creates a new active Account instance
func NewAccount(name, email, passwordHash string, role AccountRole) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         role,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin returns true if the account has the admin role
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsActive returns true if the account is allowed to sign in
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// Identity returns the least-privilege projection of the account
func (a *Account) Identity() *Identity {
	return &Identity{
		ID:     a.ID.String(),
		Name:   a.Name,
		Email:  a.Email,
		Role:   a.Role,
		Status: a.Status,
	}
}

// Identity is the projection of an account handed to request handlers.
// It never carries credentials. Role and Status feed authorization and are not serialized.
type Identity struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Email  string        `json:"email"`
	Role   AccountRole   `json:"-"`
	Status AccountStatus `json:"-"`
}

// NormalizeEmail lowercases and trims an email address for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
