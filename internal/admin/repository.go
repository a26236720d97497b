// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/josealexandro/chaama/internal/core"
)

// Overview is a point-in-time count of marketplace records.
type Overview struct {
	Accounts            int64 `db:"accounts" json:"accounts"`
	Providers           int64 `db:"providers" json:"providers"`
	ActiveSubscriptions int64 `db:"active_subscriptions" json:"active_subscriptions"`
	PendingProviders    int64 `db:"pending_providers" json:"pending_providers"`
	VisibleProfiles     int64 `db:"visible_profiles" json:"visible_profiles"`
	Reviews             int64 `db:"reviews" json:"reviews"`
	ActiveCampaigns     int64 `db:"active_campaigns" json:"active_campaigns"`
	PausedCampaigns     int64 `db:"paused_campaigns" json:"paused_campaigns"`
	ActiveClassifieds   int64 `db:"active_classifieds" json:"active_classifieds"`
}

type Repository interface {
	Overview(ctx context.Context) (*Overview, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Overview(ctx context.Context) (*Overview, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM accounts) AS accounts,
			(SELECT COUNT(*) FROM accounts WHERE account_type = 'provider') AS providers,
			(SELECT COUNT(*) FROM accounts
				WHERE account_type = 'provider' AND subscription_status = 'active') AS active_subscriptions,
			(SELECT COUNT(*) FROM accounts
				WHERE account_type = 'provider' AND subscription_status = 'pending') AS pending_providers,
			(SELECT COUNT(*) FROM providers p JOIN accounts a ON a.id = p.id
				WHERE p.active IS TRUE AND a.subscription_status = 'active') AS visible_profiles,
			(SELECT COUNT(*) FROM reviews) AS reviews,
			(SELECT COUNT(*) FROM ad_campaigns WHERE status = 'active') AS active_campaigns,
			(SELECT COUNT(*) FROM ad_campaigns WHERE status = 'paused') AS paused_campaigns,
			(SELECT COUNT(*) FROM classifieds WHERE active IS TRUE) AS active_classifieds`

	var o Overview
	if err := r.db.GetContext(ctx, &o, query); err != nil {
		return nil, fmt.Errorf("marketplace overview: %w", err)
	}

	return &o, nil
}
