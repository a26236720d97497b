// AngelaMos | 2026
// repository.go

package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/josealexandro/chaama/internal/core"
)

type Repository interface {
	GetState(ctx context.Context, userID string) (*State, error)
	FindBySubscriptionRef(ctx context.Context, ref string) (*State, error)
	CompareAndSwap(ctx context.Context, expectedVersion int, next State) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const stateColumns = `
	id, email, account_type, subscription_status, payment_customer_ref,
	payment_subscription_ref, subscription_event_at, subscription_version`

func (r *repository) GetState(ctx context.Context, userID string) (*State, error) {
	query := `SELECT ` + stateColumns + ` FROM accounts WHERE id = $1`

	var state State
	err := r.db.GetContext(ctx, &state, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get subscription state: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription state: %w", err)
	}

	return &state, nil
}

func (r *repository) FindBySubscriptionRef(
	ctx context.Context,
	ref string,
) (*State, error) {
	query := `SELECT ` + stateColumns + `
		FROM accounts
		WHERE payment_subscription_ref = $1
		LIMIT 1`

	var state State
	err := r.db.GetContext(ctx, &state, query, ref)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find by subscription ref: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find by subscription ref: %w", err)
	}

	return &state, nil
}

// CompareAndSwap writes next only if the row still carries expectedVersion.
// A concurrent writer makes it fail with core.ErrConflict.
func (r *repository) CompareAndSwap(
	ctx context.Context,
	expectedVersion int,
	next State,
) error {
	query := `
		UPDATE accounts
		SET subscription_status = $3,
		    payment_customer_ref = $4,
		    payment_subscription_ref = $5,
		    subscription_event_at = $6,
		    subscription_version = subscription_version + 1,
		    updated_at = NOW()
		WHERE id = $1 AND subscription_version = $2`

	result, err := r.db.ExecContext(ctx, query,
		next.UserID,
		expectedVersion,
		next.Status,
		next.CustomerRef,
		next.SubscriptionRef,
		next.EventAt,
	)
	if err != nil {
		return fmt.Errorf("swap subscription state: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("swap subscription state: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("swap subscription state: %w", core.ErrConflict)
	}

	return nil
}
