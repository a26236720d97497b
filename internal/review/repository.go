// AngelaMos | 2026
// repository.go

package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/josealexandro/chaama/internal/core"
)

type Repository interface {
	LockAggregate(ctx context.Context, providerID string) (Aggregate, error)
	SaveAggregate(ctx context.Context, providerID string, agg Aggregate) error
	RecountAggregate(ctx context.Context, providerID string) (Aggregate, error)
	GetByPair(ctx context.Context, providerID, reviewerID string) (*Review, error)
	Create(ctx context.Context, review *Review) error
	Update(ctx context.Context, review *Review) error
	ProviderExists(ctx context.Context, providerID string) (bool, error)
	ListByProvider(
		ctx context.Context,
		providerID string,
		page core.PageParams,
	) ([]ListedReview, int, error)
}

// Store is a Repository that can also run a unit of work in one
// transaction.
type Store interface {
	Repository
	InTx(ctx context.Context, fn func(repo Repository) error) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

type store struct {
	*repository
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) Store {
	return &store{repository: &repository{db: db}, db: db}
}

func (s *store) InTx(ctx context.Context, fn func(repo Repository) error) error {
	return core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return fn(&repository{db: tx})
	})
}

// LockAggregate reads the provider's rating fields and holds the row lock
// until the surrounding transaction ends.
func (r *repository) LockAggregate(
	ctx context.Context,
	providerID string,
) (Aggregate, error) {
	query := `
		SELECT rating_count, rating_sum, rating_mean
		FROM providers
		WHERE id = $1
		FOR UPDATE`

	var agg Aggregate
	err := r.db.GetContext(ctx, &agg, query, providerID)
	if errors.Is(err, sql.ErrNoRows) {
		return Aggregate{}, fmt.Errorf("lock rating aggregate: %w", core.ErrNotFound)
	}
	if err != nil {
		return Aggregate{}, fmt.Errorf("lock rating aggregate: %w", err)
	}

	return agg, nil
}

func (r *repository) SaveAggregate(
	ctx context.Context,
	providerID string,
	agg Aggregate,
) error {
	query := `
		UPDATE providers
		SET rating_count = $2,
		    rating_sum = $3,
		    rating_mean = $4,
		    updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, providerID, agg.Count, agg.Sum, agg.Mean)
	if err != nil {
		return fmt.Errorf("save rating aggregate: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save rating aggregate: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("save rating aggregate: %w", core.ErrNotFound)
	}

	return nil
}

// RecountAggregate rebuilds the aggregate from the review rows.
func (r *repository) RecountAggregate(
	ctx context.Context,
	providerID string,
) (Aggregate, error) {
	query := `
		SELECT COUNT(*) AS rating_count, COALESCE(SUM(score), 0) AS rating_sum
		FROM reviews
		WHERE provider_id = $1`

	var agg Aggregate
	if err := r.db.GetContext(ctx, &agg, query, providerID); err != nil {
		return Aggregate{}, fmt.Errorf("recount rating aggregate: %w", err)
	}
	agg.Mean = meanOf(agg.Sum, agg.Count)

	return agg, nil
}

func (r *repository) GetByPair(
	ctx context.Context,
	providerID, reviewerID string,
) (*Review, error) {
	query := `
		SELECT id, provider_id, reviewer_id, score, comment, created_at, updated_at
		FROM reviews
		WHERE provider_id = $1 AND reviewer_id = $2`

	var review Review
	err := r.db.GetContext(ctx, &review, query, providerID, reviewerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get review: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &review, nil
}

func (r *repository) Create(ctx context.Context, review *Review) error {
	query := `
		INSERT INTO reviews (id, provider_id, reviewer_id, score, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		review.ID,
		review.ProviderID,
		review.ReviewerID,
		review.Score,
		review.Comment,
	).Scan(&review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create review: %w", core.ErrConflict)
		}
		// The provider row is locked before the insert, so a missing
		// reference here is the reviewer's account.
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create review: %w",
				core.Reason(core.ErrForbidden, "complete your account signup first"))
		}
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, review *Review) error {
	query := `
		UPDATE reviews
		SET score = $2, comment = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		review.ID,
		review.Score,
		review.Comment,
	).Scan(&review.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update review: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}

	return nil
}

func (r *repository) ProviderExists(ctx context.Context, providerID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM providers WHERE id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, providerID); err != nil {
		return false, fmt.Errorf("check provider exists: %w", err)
	}

	return exists, nil
}

// ListByProvider returns the newest reviews first. The reviewer name is
// null when the reviewer's account is gone.
func (r *repository) ListByProvider(
	ctx context.Context,
	providerID string,
	page core.PageParams,
) ([]ListedReview, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM reviews WHERE provider_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, providerID); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := `
		SELECT r.id, r.provider_id, r.reviewer_id, r.score, r.comment,
		       r.created_at, r.updated_at, a.name AS reviewer_name
		FROM reviews r
		LEFT JOIN accounts a ON a.id = r.reviewer_id
		WHERE r.provider_id = $1
		ORDER BY r.created_at DESC, r.id
		LIMIT $2 OFFSET $3`

	var reviews []ListedReview
	err := r.db.SelectContext(ctx, &reviews, query, providerID, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, total, nil
}
