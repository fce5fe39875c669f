package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/upb/event-admin-api/models"
	"github.com/upb/event-admin-api/repositories"
	"go.uber.org/zap"
)

const pgUniqueViolation = "23505"

// AccountRepository implements repositories.AccountRepository on database/sql.
// Queries use $n placeholders, which both lib/pq and sqlite accept.
type AccountRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *DB, logger *zap.Logger) repositories.AccountRepository {
	return &AccountRepository{
		db:     db,
		logger: logger,
	}
}

// FindIdentity retrieves the identity projection of an account
func (r *AccountRepository) FindIdentity(ctx context.Context, id string) (*models.Identity, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}

	query := `
		SELECT id, name, email, role, status
		FROM accounts
		WHERE id = $1
	`

	var (
		scannedID uuid.UUID
		identity  models.Identity
	)
	err = r.db.QueryRowContext(ctx, query, accountID).Scan(
		&scannedID,
		&identity.Name,
		&identity.Email,
		&identity.Role,
		&identity.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	identity.ID = scannedID.String()
	return &identity, nil
}

// GetByID retrieves an account by id
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}

	query := `
		SELECT id, name, email, password_hash, role, status, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, accountID))
}

// GetByEmail retrieves an account by its normalised email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `
		SELECT id, name, email, password_hash, role, status, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, models.NormalizeEmail(email)))
}

func (r *AccountRepository) scanAccount(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, name, email, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Name,
		account.Email,
		account.PasswordHash,
		string(account.Role),
		string(account.Status),
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repositories.ErrDuplicate
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	r.logger.Debug("account created", zap.String("id", account.ID.String()), zap.String("role", string(account.Role)))
	return nil
}

// UpdateRole changes the role of an account
func (r *AccountRepository) UpdateRole(ctx context.Context, id string, role models.AccountRole) error {
	query := `
		UPDATE accounts
		SET role = $1, updated_at = $2
		WHERE id = $3
	`
	return r.update(ctx, "role", query, id, string(role))
}

// UpdateStatus activates or blocks an account
func (r *AccountRepository) UpdateStatus(ctx context.Context, id string, status models.AccountStatus) error {
	query := `
		UPDATE accounts
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	return r.update(ctx, "status", query, id, string(status))
}

func (r *AccountRepository) update(ctx context.Context, field, query, id, value string) error {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return repositories.ErrNotFound
	}

	result, err := r.db.ExecContext(ctx, query, value, time.Now().UTC(), accountID)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", field, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("account updated", zap.String("id", id), zap.String(field, value))
	return nil
}

// Count returns the number of stored accounts
func (r *AccountRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM accounts").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
