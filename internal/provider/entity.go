// AngelaMos | 2026
// entity.go

package provider

import (
	"time"
)

// Provider is the public profile of a provider account. ID is the owner's
// account id. Rating fields are written only by the review aggregator.
type Provider struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Service     string    `db:"service"`
	ServiceKey  string    `db:"service_key"`
	Description string    `db:"description"`
	City        string    `db:"city"`
	CityKey     string    `db:"city_key"`
	Whatsapp    string    `db:"whatsapp"`
	PhotoRef    *string   `db:"photo_ref"`
	AvgPrice    *float64  `db:"avg_price"`
	MapLink     *string   `db:"map_link"`
	Premium     bool      `db:"premium"`
	Active      bool      `db:"active"`
	RatingCount int       `db:"rating_count"`
	RatingMean  float64   `db:"rating_mean"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
