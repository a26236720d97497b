// AngelaMos | 2026
// dto.go

package classified

import (
	"time"

	"github.com/josealexandro/chaama/internal/core"
)

type CreateClassifiedRequest struct {
	Title       string  `json:"title"       validate:"required,min=3,max=120"`
	Description string  `json:"description" validate:"required,max=2000"`
	ImageRef    string  `json:"image_ref"   validate:"required,url,max=512"`
	LinkURL     *string `json:"link_url"    validate:"omitempty,url,max=512"`
	City        string  `json:"city"        validate:"required,max=80"`
	Address     *string `json:"address"     validate:"omitempty,max=200"`
}

// UpdateClassifiedRequest is a patch: nil fields are left alone.
type UpdateClassifiedRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=3,max=120"`
	Description *string `json:"description" validate:"omitempty,min=1,max=2000"`
	ImageRef    *string `json:"image_ref"   validate:"omitempty,url,max=512"`
	LinkURL     *string `json:"link_url"    validate:"omitempty,url,max=512"`
	City        *string `json:"city"        validate:"omitempty,min=1,max=80"`
	Address     *string `json:"address"     validate:"omitempty,max=200"`
	Active      *bool   `json:"active"`
}

func (r UpdateClassifiedRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.ImageRef == nil &&
		r.LinkURL == nil && r.City == nil && r.Address == nil && r.Active == nil
}

type ListParams struct {
	City string
	core.PageParams
}

type ClassifiedResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageRef    string    `json:"image_ref"`
	LinkURL     *string   `json:"link_url"`
	City        string    `json:"city"`
	Address     *string   `json:"address"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToClassifiedResponse(c *Classified) ClassifiedResponse {
	return ClassifiedResponse{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		Title:       c.Title,
		Description: c.Description,
		ImageRef:    c.ImageRef,
		LinkURL:     c.LinkURL,
		City:        c.City,
		Address:     c.Address,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func ToClassifiedResponses(items []Classified) []ClassifiedResponse {
	out := make([]ClassifiedResponse, len(items))
	for i := range items {
		out[i] = ToClassifiedResponse(&items[i])
	}
	return out
}
