// AngelaMos | 2026
// entity.go

package classified

import (
	"time"
)

// Classified is a community ad listed per city. Unlike campaigns it has no
// window; the owner switches it on and off.
type Classified struct {
	ID          string    `db:"id"`
	OwnerID     string    `db:"owner_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	ImageRef    string    `db:"image_ref"`
	LinkURL     *string   `db:"link_url"`
	City        string    `db:"city"`
	CityKey     string    `db:"city_key"`
	Address     *string   `db:"address"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Patch holds the fields an update sets. Nil fields keep their value.
type Patch struct {
	Title       *string
	Description *string
	ImageRef    *string
	LinkURL     *string
	City        *string
	CityKey     *string
	Address     *string
	Active      *bool
}
