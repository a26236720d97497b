// AngelaMos | 2026
// repository.go

package campaign

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/josealexandro/chaama/internal/core"
)

type Counter string

const (
	CounterViews  Counter = "view_count"
	CounterClicks Counter = "click_count"
)

type Repository interface {
	Create(ctx context.Context, c *Campaign) error
	GetByID(ctx context.Context, id string) (*Campaign, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Campaign, error)
	ListActive(ctx context.Context, region Region, limit int) ([]Campaign, error)
	Increment(ctx context.Context, id string, counter Counter) error
	Transition(ctx context.Context, id, ownerID string, from, to Status, now time.Time) (bool, error)
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db      core.DBTX
	dialect goqu.DialectWrapper
}

func NewRepository(db core.DBTX) Repository {
	return &repository{
		db:      db,
		dialect: goqu.Dialect("postgres"),
	}
}

const campaignColumns = `
	id, owner_id, title, image_ref, target_url, city, city_key, state, state_key,
	country, plan_days, start_at, end_at, status, view_count, click_count,
	created_at, updated_at`

func (r *repository) Create(ctx context.Context, c *Campaign) error {
	query := `
		INSERT INTO ad_campaigns (
			id, owner_id, title, image_ref, target_url, city, city_key,
			state, state_key, country, plan_days, start_at, end_at, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		c.ID,
		c.OwnerID,
		c.Title,
		c.ImageRef,
		c.TargetURL,
		c.City,
		c.CityKey,
		c.State,
		c.StateKey,
		c.Country,
		c.PlanDays,
		c.StartAt,
		c.EndAt,
		c.Status,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM ad_campaigns WHERE id = $1`

	var c Campaign
	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get campaign: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}

	return &c, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID string) ([]Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM ad_campaigns
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	var campaigns []Campaign
	if err := r.db.SelectContext(ctx, &campaigns, query, ownerID); err != nil {
		return nil, fmt.Errorf("list campaigns by owner: %w", err)
	}

	return campaigns, nil
}

// ListActive selects campaigns for display. It filters on status and region
// only; end_at is left to the sweep. region.CityKey must be set.
func (r *repository) ListActive(
	ctx context.Context,
	region Region,
	limit int,
) ([]Campaign, error) {
	ds := r.dialect.From("ad_campaigns").
		Where(
			goqu.C("status").Eq(string(StatusActive)),
			goqu.C("city_key").Eq(region.CityKey),
		)

	if region.StateKey != "" {
		ds = ds.Where(goqu.C("state_key").Eq(region.StateKey))
	}
	if region.Country != "" {
		ds = ds.Where(goqu.C("country").Eq(region.Country))
	}

	query, args, err := ds.
		Select(goqu.L(campaignColumns)).
		Order(goqu.C("start_at").Desc(), goqu.C("id").Asc()).
		Limit(uint(limit)). //nolint:gosec // bounded by the service
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build active campaigns query: %w", err)
	}

	var campaigns []Campaign
	if err := r.db.SelectContext(ctx, &campaigns, query, args...); err != nil {
		return nil, fmt.Errorf("list active campaigns: %w", err)
	}

	return campaigns, nil
}

func (r *repository) Increment(ctx context.Context, id string, counter Counter) error {
	var query string
	switch counter {
	case CounterViews:
		query = `UPDATE ad_campaigns SET view_count = view_count + 1 WHERE id = $1`
	case CounterClicks:
		query = `UPDATE ad_campaigns SET click_count = click_count + 1 WHERE id = $1`
	default:
		return fmt.Errorf("increment campaign counter %q: %w", counter, core.ErrInvalidInput)
	}

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment %s: %w", counter, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment %s: %w", counter, err)
	}

	if rows == 0 {
		return fmt.Errorf("increment %s: %w", counter, core.ErrNotFound)
	}

	return nil
}

// Transition moves the owner's campaign from one status to another while
// its window is still open. It reports whether a row changed.
func (r *repository) Transition(
	ctx context.Context,
	id, ownerID string,
	from, to Status,
	now time.Time,
) (bool, error) {
	query := `
		UPDATE ad_campaigns
		SET status = $4, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2 AND status = $3 AND end_at > $5`

	result, err := r.db.ExecContext(ctx, query, id, ownerID, from, to, now)
	if err != nil {
		return false, fmt.Errorf("transition campaign: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition campaign: %w", err)
	}

	return rows > 0, nil
}

// ExpireDue is the only writer of the expired status.
func (r *repository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE ad_campaigns
		SET status = $1, updated_at = NOW()
		WHERE status IN ($2, $3) AND end_at < $4`

	result, err := r.db.ExecContext(ctx, query,
		StatusExpired,
		StatusActive,
		StatusPaused,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("expire campaigns: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expire campaigns: %w", err)
	}

	return rows, nil
}
