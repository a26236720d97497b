// AngelaMos | 2026
// dto.go

package provider

import (
	"time"

	"github.com/josealexandro/chaama/internal/core"
)

type UpsertProfileRequest struct {
	Name        string   `json:"name"        validate:"required,min=2,max=120"`
	Service     string   `json:"service"     validate:"required,max=80"`
	Description string   `json:"description" validate:"max=2000"`
	City        string   `json:"city"        validate:"required,max=80"`
	Whatsapp    string   `json:"whatsapp"    validate:"required,min=8,max=20"`
	PhotoRef    *string  `json:"photo_ref"   validate:"omitempty,url,max=512"`
	AvgPrice    *float64 `json:"avg_price"   validate:"omitempty,gte=0"`
	MapLink     *string  `json:"map_link"    validate:"omitempty,url,max=512"`
	Active      *bool    `json:"active"`
}

type SearchParams struct {
	Service string
	City    string
	core.PageParams
}

type ProviderResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Service     string    `json:"service"`
	Description string    `json:"description"`
	City        string    `json:"city"`
	Whatsapp    string    `json:"whatsapp"`
	PhotoRef    *string   `json:"photo_ref"`
	AvgPrice    *float64  `json:"avg_price"`
	MapLink     *string   `json:"map_link"`
	Premium     bool      `json:"premium"`
	Active      bool      `json:"active"`
	RatingCount int       `json:"rating_count"`
	RatingMean  float64   `json:"rating_mean"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToProviderResponse(p *Provider) ProviderResponse {
	return ProviderResponse{
		ID:          p.ID,
		Name:        p.Name,
		Service:     p.Service,
		Description: p.Description,
		City:        p.City,
		Whatsapp:    p.Whatsapp,
		PhotoRef:    p.PhotoRef,
		AvgPrice:    p.AvgPrice,
		MapLink:     p.MapLink,
		Premium:     p.Premium,
		Active:      p.Active,
		RatingCount: p.RatingCount,
		RatingMean:  p.RatingMean,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProviderResponses(providers []Provider) []ProviderResponse {
	out := make([]ProviderResponse, len(providers))
	for i := range providers {
		out[i] = ToProviderResponse(&providers[i])
	}
	return out
}
