// AngelaMos | 2026
// service.go

package provider

import (
	"context"
	"strings"

	"github.com/josealexandro/chaama/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertProfile creates or replaces the caller's public profile. Profiles
// are published unless the request says otherwise.
func (s *Service) UpsertProfile(
	ctx context.Context,
	uid string,
	req UpsertProfileRequest,
) (*Provider, error) {
	p := &Provider{
		ID:          uid,
		Name:        strings.TrimSpace(req.Name),
		Service:     strings.TrimSpace(req.Service),
		Description: strings.TrimSpace(req.Description),
		City:        strings.TrimSpace(req.City),
		Whatsapp:    strings.TrimSpace(req.Whatsapp),
		PhotoRef:    req.PhotoRef,
		AvgPrice:    req.AvgPrice,
		MapLink:     req.MapLink,
		Active:      true,
	}
	if req.Active != nil {
		p.Active = *req.Active
	}

	p.ServiceKey = core.NormalizeKey(p.Service)
	p.CityKey = core.NormalizeKey(p.City)
	if p.ServiceKey == "" || p.CityKey == "" {
		return nil, core.Reason(core.ErrInvalidInput, "service and city are required")
	}

	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Provider, error) {
	return s.repo.GetByID(ctx, id)
}

// Search matches service and city ignoring case and accents.
func (s *Service) Search(ctx context.Context, params SearchParams) ([]Provider, int, error) {
	params.Service = core.NormalizeKey(params.Service)
	params.City = core.NormalizeKey(params.City)
	params.Normalize()

	return s.repo.Search(ctx, params)
}
