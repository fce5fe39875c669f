package repositories

import (
	"context"
	"errors"

	"github.com/upb/event-admin-api/models"
)

var (
	// ErrNotFound is returned when the requested account does not exist
	ErrNotFound = errors.New("account not found")

	// ErrDuplicate is returned when an account with the same email already exists
	ErrDuplicate = errors.New("account already exists")
)

// AccountRepository handles account data operations
type AccountRepository interface {
	// FindIdentity returns the id, name and email of the account with the given id.
	// Ids that are not valid UUIDs yield ErrNotFound.
	FindIdentity(ctx context.Context, id string) (*models.Identity, error)

	// GetByEmail retrieves an account, including its password hash, by email
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	// GetByID retrieves an account by id
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// Create inserts a new account
	Create(ctx context.Context, account *models.Account) error

	// UpdateRole changes the role of an account
	UpdateRole(ctx context.Context, id string, role models.AccountRole) error

	// UpdateStatus activates or blocks an account
	UpdateStatus(ctx context.Context, id string, status models.AccountStatus) error

	// Count returns the number of stored accounts
	Count(ctx context.Context) (int, error)
}
