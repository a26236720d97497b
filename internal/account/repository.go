// AngelaMos | 2026
// repository.go

package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/josealexandro/chaama/internal/core"
)

type Repository interface {
	CreateIfAbsent(ctx context.Context, account *Account) (bool, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	UpdateProfile(ctx context.Context, id string, req UpdateAccountRequest) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const accountColumns = `
	id, email, name, phone, city, account_type,
	subscription_status, payment_customer_ref, payment_subscription_ref,
	subscription_event_at, subscription_version, created_at, updated_at`

// CreateIfAbsent inserts the account unless one with the same id exists.
// It reports whether a row was written.
func (r *repository) CreateIfAbsent(
	ctx context.Context,
	account *Account,
) (bool, error) {
	query := `
		INSERT INTO accounts (id, email, name, phone, city, account_type, subscription_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		account.ID,
		account.Email,
		account.Name,
		account.Phone,
		account.City,
		account.Type,
		account.SubscriptionStatus,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create account: %w", err)
	}

	return true, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	var account Account
	err := r.db.GetContext(ctx, &account, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	return &account, nil
}

func (r *repository) UpdateProfile(
	ctx context.Context,
	id string,
	req UpdateAccountRequest,
) error {
	query := `
		UPDATE accounts
		SET name = COALESCE($2, name),
		    phone = COALESCE($3, phone),
		    city = COALESCE($4, city),
		    updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, req.Name, req.Phone, req.City)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update account: %w", core.ErrNotFound)
	}

	return nil
}
