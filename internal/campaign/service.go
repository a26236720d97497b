// AngelaMos | 2026
// service.go

package campaign

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/josealexandro/chaama/internal/core"
)

const (
	defaultCountry  = "BR"
	maxDisplayedAds = 10
	planDayDuration = 24 * time.Hour
)

type Service struct {
	repo     Repository
	planDays []int
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, planDays []int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		planDays: planDays,
		logger:   logger,
		now:      time.Now,
	}
}

// Create starts a campaign now and ends it after the chosen plan.
func (s *Service) Create(
	ctx context.Context,
	ownerID string,
	req CreateCampaignRequest,
) (*Campaign, error) {
	if !slices.Contains(s.planDays, req.PlanDays) {
		return nil, core.Reason(core.ErrInvalidInput,
			"plan_days must be one of %v", s.planDays)
	}

	country := strings.ToUpper(strings.TrimSpace(req.Country))
	if country == "" {
		country = defaultCountry
	}

	start := s.now().UTC()
	c := &Campaign{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     strings.TrimSpace(req.Title),
		ImageRef:  strings.TrimSpace(req.ImageRef),
		TargetURL: strings.TrimSpace(req.TargetURL),
		City:      strings.TrimSpace(req.City),
		CityKey:   core.NormalizeKey(req.City),
		State:     strings.TrimSpace(req.State),
		StateKey:  core.NormalizeKey(req.State),
		Country:   country,
		PlanDays:  req.PlanDays,
		StartAt:   start,
		EndAt:     start.Add(time.Duration(req.PlanDays) * planDayDuration),
		Status:    StatusActive,
	}

	if c.CityKey == "" || c.StateKey == "" {
		return nil, core.Reason(core.ErrInvalidInput, "city and state are required")
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("campaign created",
		"campaign_id", c.ID,
		"owner_id", ownerID,
		"plan_days", c.PlanDays,
		"end_at", c.EndAt,
	)

	return c, nil
}

func (s *Service) ListMine(ctx context.Context, ownerID string) ([]Campaign, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// ListActive picks campaigns to show a viewer in city, narrowed by state and
// country when given. Display is stale by at most one sweep interval.
func (s *Service) ListActive(ctx context.Context, city, state, country string) ([]Campaign, error) {
	region := Region{
		CityKey:  core.NormalizeKey(city),
		StateKey: core.NormalizeKey(state),
		Country:  strings.ToUpper(strings.TrimSpace(country)),
	}
	if region.CityKey == "" {
		return nil, core.Reason(core.ErrInvalidInput, "city is required")
	}
	return s.repo.ListActive(ctx, region, maxDisplayedAds)
}

// RecordView and RecordClick are fire-and-forget counters. A failed
// increment is logged and dropped.
func (s *Service) RecordView(ctx context.Context, id string) error {
	return s.record(ctx, id, CounterViews)
}

func (s *Service) RecordClick(ctx context.Context, id string) error {
	return s.record(ctx, id, CounterClicks)
}

func (s *Service) record(ctx context.Context, id string, counter Counter) error {
	err := s.repo.Increment(ctx, id, counter)
	if err == nil || errors.Is(err, core.ErrNotFound) {
		return err
	}

	s.logger.Warn("campaign counter dropped",
		"campaign_id", id,
		"counter", counter,
		"error", err,
	)
	return nil
}

// SetPaused pauses or resumes the owner's campaign. Neither is allowed once
// the campaign window has closed.
func (s *Service) SetPaused(
	ctx context.Context,
	ownerID, id string,
	paused bool,
) (*Campaign, error) {
	from, to := StatusActive, StatusPaused
	if !paused {
		from, to = StatusPaused, StatusActive
	}

	now := s.now()
	changed, err := s.repo.Transition(ctx, id, ownerID, from, to, now)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != ownerID {
		return nil, core.Reason(core.ErrForbidden, "campaign belongs to another account")
	}

	if changed || c.Status == to {
		return c, nil
	}

	if c.Ended(now) || c.Status == StatusExpired {
		return nil, core.Reason(core.ErrInvalidInput, "campaign has ended")
	}
	return nil, core.Reason(core.ErrInvalidInput, "campaign is %s", c.Status)
}

// ExpireDue moves every campaign whose window closed before now to expired.
// Running it again without time passing changes nothing.
func (s *Service) ExpireDue(ctx context.Context) (int64, error) {
	now := s.now()

	ctx, span := core.StartSpan(ctx, "campaign.expire_due",
		attribute.String("sweep.now", now.UTC().Format(time.RFC3339)),
	)
	defer span.End()

	n, err := s.repo.ExpireDue(ctx, now)
	if err != nil {
		core.SetSpanError(ctx, err)
		return 0, fmt.Errorf("expire due campaigns: %w", err)
	}

	span.SetAttributes(attribute.Int64("sweep.expired", n))
	return n, nil
}
