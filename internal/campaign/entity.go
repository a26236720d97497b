// AngelaMos | 2026
// entity.go

package campaign

import (
	"time"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusPaused  Status = "paused"
	StatusExpired Status = "expired"
)

// Campaign is a time-boxed local ad. Only the sweep moves it to expired,
// so an active campaign may briefly outlive EndAt.
type Campaign struct {
	ID         string    `db:"id"`
	OwnerID    string    `db:"owner_id"`
	Title      string    `db:"title"`
	ImageRef   string    `db:"image_ref"`
	TargetURL  string    `db:"target_url"`
	City       string    `db:"city"`
	CityKey    string    `db:"city_key"`
	State      string    `db:"state"`
	StateKey   string    `db:"state_key"`
	Country    string    `db:"country"`
	PlanDays   int       `db:"plan_days"`
	StartAt    time.Time `db:"start_at"`
	EndAt      time.Time `db:"end_at"`
	Status     Status    `db:"status"`
	ViewCount  int64     `db:"view_count"`
	ClickCount int64     `db:"click_count"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Region is the display target a viewer is matched against. CityKey is
// always matched; an empty StateKey or Country matches any value.
type Region struct {
	CityKey  string
	StateKey string
	Country  string
}

func (c *Campaign) Ended(now time.Time) bool {
	return !now.Before(c.EndAt)
}
