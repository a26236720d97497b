// AngelaMos | 2026
// service.go

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/josealexandro/chaama/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateDocument finalizes the account record for an authenticated user.
// Existing accounts are returned unchanged, so a client can never become
// a provider (or reset a provider's subscription) by calling it again.
// Providers start pending.
func (s *Service) CreateDocument(
	ctx context.Context,
	uid string,
	req CreateAccountRequest,
) (*Account, bool, error) {
	if uid == "" {
		return nil, false, fmt.Errorf("create account: %w", core.ErrUnauthorized)
	}

	account := &Account{
		ID:    uid,
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
		City:  strings.TrimSpace(req.City),
		Type:  req.Type,
	}
	if account.IsProvider() {
		status := StatusPending
		account.SubscriptionStatus = &status
	}

	created, err := s.repo.CreateIfAbsent(ctx, account)
	if err != nil {
		return nil, false, err
	}

	if !created {
		existing, err := s.repo.GetByID(ctx, uid)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	return account, true, nil
}

func (s *Service) GetMe(ctx context.Context, uid string) (*Account, error) {
	return s.repo.GetByID(ctx, uid)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	uid string,
	req UpdateAccountRequest,
) (*Account, error) {
	if !req.Empty() {
		if err := s.repo.UpdateProfile(ctx, uid, trimPatch(req)); err != nil {
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, uid)
}

func trimPatch(req UpdateAccountRequest) UpdateAccountRequest {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}

	return UpdateAccountRequest{
		Name:  trim(req.Name),
		Phone: trim(req.Phone),
		City:  trim(req.City),
	}
}
