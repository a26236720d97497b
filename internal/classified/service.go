// AngelaMos | 2026
// service.go

package classified

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/josealexandro/chaama/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	ownerID string,
	req CreateClassifiedRequest,
) (*Classified, error) {
	c := &Classified{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		ImageRef:    strings.TrimSpace(req.ImageRef),
		LinkURL:     trimOptional(req.LinkURL),
		City:        strings.TrimSpace(req.City),
		CityKey:     core.NormalizeKey(req.City),
		Address:     trimOptional(req.Address),
		Active:      true,
	}

	if c.Title == "" || c.Description == "" || c.CityKey == "" {
		return nil, core.Reason(core.ErrInvalidInput, "title, description and city are required")
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Classified, error) {
	return s.repo.GetByID(ctx, id)
}

// Update edits a classified owned by ownerID. Someone else's classified
// is reported as forbidden.
func (s *Service) Update(
	ctx context.Context,
	ownerID, id string,
	req UpdateClassifiedRequest,
) (*Classified, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.OwnerID != ownerID {
		return nil, core.Reason(core.ErrForbidden, "classified belongs to another account")
	}

	if req.Empty() {
		return current, nil
	}

	patch := Patch{
		Title:       trimOptional(req.Title),
		Description: trimOptional(req.Description),
		ImageRef:    trimOptional(req.ImageRef),
		LinkURL:     trimOptional(req.LinkURL),
		City:        trimOptional(req.City),
		Address:     trimOptional(req.Address),
		Active:      req.Active,
	}
	if patch.City != nil {
		key := core.NormalizeKey(*patch.City)
		if key == "" {
			return nil, core.Reason(core.ErrInvalidInput, "city cannot be blank")
		}
		patch.CityKey = &key
	}

	if err := s.repo.Update(ctx, id, ownerID, patch); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// List returns active classifieds, optionally for one city.
func (s *Service) List(ctx context.Context, params ListParams) ([]Classified, int, error) {
	params.City = core.NormalizeKey(params.City)
	params.Normalize()

	return s.repo.List(ctx, params)
}

func (s *Service) ListMine(ctx context.Context, ownerID string) ([]Classified, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func trimOptional(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
