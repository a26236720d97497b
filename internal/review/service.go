// AngelaMos | 2026
// service.go

package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/josealexandro/chaama/internal/core"
)

const maxCommentLength = 2000

type Service struct {
	store  Store
	retry  core.RetryConfig
	logger *slog.Logger
}

func NewService(store Store, retry core.RetryConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		retry:  retry,
		logger: logger,
	}
}

type SubmitResult struct {
	Review    *Review
	Aggregate Aggregate
	Created   bool
}

// SubmitReview creates or edits the reviewer's review of a provider and
// folds the score into the provider's aggregate in the same transaction.
// The provider row lock serializes concurrent submissions; lock conflicts
// are retried and surface as core.ErrTransient once exhausted.
func (s *Service) SubmitReview(
	ctx context.Context,
	providerID, reviewerID string,
	req SubmitReviewRequest,
) (*SubmitResult, error) {
	comment := strings.TrimSpace(req.Comment)
	if err := validateSubmission(req.Score, comment); err != nil {
		return nil, err
	}

	if providerID == reviewerID {
		return nil, core.Reason(core.ErrForbidden, "providers cannot review themselves")
	}

	ctx, span := core.StartSpan(ctx, "review.submit",
		attribute.String("provider.id", providerID),
		attribute.Int("review.score", req.Score),
	)
	defer span.End()

	var result *SubmitResult
	err := core.Retry(ctx, s.retry, "submit review", func() error {
		return s.store.InTx(ctx, func(repo Repository) error {
			res, err := submit(ctx, repo, providerID, reviewerID, req.Score, comment)
			if err != nil {
				return err
			}
			result = res
			return nil
		})
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	s.logger.Info("review submitted",
		"provider_id", providerID,
		"review_id", result.Review.ID,
		"created", result.Created,
		"rating_count", result.Aggregate.Count,
		"rating_mean", result.Aggregate.Mean,
	)

	return result, nil
}

func submit(
	ctx context.Context,
	repo Repository,
	providerID, reviewerID string,
	score int,
	comment string,
) (*SubmitResult, error) {
	agg, err := repo.LockAggregate(ctx, providerID)
	if err != nil {
		return nil, err
	}

	existing, err := repo.GetByPair(ctx, providerID, reviewerID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	if existing == nil {
		review := &Review{
			ID:         uuid.NewString(),
			ProviderID: providerID,
			ReviewerID: reviewerID,
			Score:      score,
			Comment:    comment,
		}
		if err := repo.Create(ctx, review); err != nil {
			return nil, err
		}

		next := agg.Add(score)
		if err := repo.SaveAggregate(ctx, providerID, next); err != nil {
			return nil, err
		}
		return &SubmitResult{Review: review, Aggregate: next, Created: true}, nil
	}

	oldScore := existing.Score
	existing.Score = score
	existing.Comment = comment
	if err := repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	var next Aggregate
	if agg.Count < 1 {
		next, err = repo.RecountAggregate(ctx, providerID)
		if err != nil {
			return nil, err
		}
	} else {
		next = agg.Replace(oldScore, score)
	}

	if err := repo.SaveAggregate(ctx, providerID, next); err != nil {
		return nil, err
	}
	return &SubmitResult{Review: existing, Aggregate: next}, nil
}

func validateSubmission(score int, comment string) error {
	if score < MinScore || score > MaxScore {
		return core.Reason(core.ErrInvalidInput, "score must be between %d and %d", MinScore, MaxScore)
	}
	if comment == "" {
		return core.Reason(core.ErrInvalidInput, "comment is required")
	}
	if utf8.RuneCountInString(comment) > maxCommentLength {
		return core.Reason(core.ErrInvalidInput, "comment must be at most %d characters", maxCommentLength)
	}
	return nil
}

func (s *Service) ListReviews(
	ctx context.Context,
	providerID string,
	page core.PageParams,
) ([]ListedReview, int, error) {
	exists, err := s.store.ProviderExists(ctx, providerID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, fmt.Errorf("list reviews: %w", core.ErrNotFound)
	}

	page.Normalize()
	return s.store.ListByProvider(ctx, providerID, page)
}

func (s *Service) GetOwnReview(
	ctx context.Context,
	providerID, reviewerID string,
) (*Review, error) {
	return s.store.GetByPair(ctx, providerID, reviewerID)
}
