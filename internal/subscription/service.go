// AngelaMos | 2026
// service.go

package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/josealexandro/chaama/internal/core"
	"github.com/josealexandro/chaama/internal/notify"
)

type Config struct {
	// Required is false when providers may publish without paying.
	Required bool
	Retry    core.RetryConfig
}

// Service reconciles provider subscription state with the payment
// provider. It is the only writer of subscription fields, apart from the
// explicit free access grant.
type Service struct {
	repo     Repository
	payments PaymentProvider
	mailer   notify.Mailer
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires the reconciler. payments may be nil when the payment
// provider is not configured; operations that need it then fail with
// core.ErrNotConfigured.
func NewService(
	repo Repository,
	payments PaymentProvider,
	mailer notify.Mailer,
	cfg Config,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		payments: payments,
		mailer:   mailer,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// HandleWebhook verifies and applies a payment provider event. Events it
// cannot act on are acknowledged; only verification and store failures are
// returned.
func (s *Service) HandleWebhook(
	ctx context.Context,
	payload []byte,
	signature string,
) error {
	if s.payments == nil {
		return fmt.Errorf("handle webhook: payment provider: %w", core.ErrNotConfigured)
	}

	event, err := s.payments.ParseWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("handle webhook: %w", err)
	}

	ctx, span := core.StartSpan(ctx, "subscription.webhook",
		attribute.String("event.id", event.ID),
		attribute.String("event.type", string(event.Type)),
	)
	defer span.End()

	switch event.Type {
	case EventCheckoutCompleted:
		err = s.applyCheckoutCompleted(ctx, event)
	case EventSubscriptionDeleted:
		err = s.applySubscriptionDeleted(ctx, event)
	default:
		s.logger.Debug("webhook event ignored", "event_id", event.ID, "type", event.Type)
	}

	if err != nil {
		core.SetSpanError(ctx, err)
		return fmt.Errorf("handle webhook %s: %w", event.Type, err)
	}
	return nil
}

func (s *Service) applyCheckoutCompleted(ctx context.Context, event *Event) error {
	session := event.Session
	if session == nil || session.OwnerID() == "" {
		s.logger.Warn("checkout completed without user reference, acknowledging",
			"event_id", event.ID,
		)
		return nil
	}

	at := session.CreatedAt
	if at.IsZero() {
		at = event.CreatedAt
	}

	_, err := s.activate(ctx, session.OwnerID(), at, session.Refs())
	if errors.Is(err, core.ErrInvalidInput) {
		s.logger.Warn("checkout completed for non-provider account, acknowledging",
			"event_id", event.ID,
			"user_id", session.OwnerID(),
		)
		return nil
	}
	return err
}

func (s *Service) applySubscriptionDeleted(ctx context.Context, event *Event) error {
	if event.SubscriptionRef == "" {
		s.logger.Warn("subscription deleted without id, acknowledging", "event_id", event.ID)
		return nil
	}

	var canceled *State
	err := core.Retry(ctx, s.cfg.Retry, "cancel subscription", func() error {
		canceled = nil

		state, err := s.repo.FindBySubscriptionRef(ctx, event.SubscriptionRef)
		if err != nil {
			return err
		}

		next, changed := state.Cancel(event.CreatedAt)
		if !changed {
			return nil
		}

		if err := s.repo.CompareAndSwap(ctx, state.Version, next); err != nil {
			return err
		}
		canceled = &next
		return nil
	})
	if errors.Is(err, core.ErrNotFound) {
		s.logger.Warn("subscription deleted for unknown reference, acknowledging",
			"event_id", event.ID,
			"subscription_ref", event.SubscriptionRef,
		)
		return nil
	}
	if err != nil {
		return err
	}

	if canceled != nil {
		s.logger.Info("subscription canceled", "user_id", canceled.UserID)
		s.sendNotice(ctx, canceled.Email, notify.Message{
			Subject: "Sua assinatura foi cancelada",
			Body:    "Sua assinatura de prestador foi encerrada. Seu perfil não aparece mais nas buscas.",
		})
	}
	return nil
}

// CreateCheckoutSession starts a hosted checkout for the caller and returns
// the URL to redirect to.
func (s *Service) CreateCheckoutSession(ctx context.Context, uid string) (string, error) {
	if !s.cfg.Required {
		return "", core.Reason(core.ErrInvalidInput, "subscriptions are not required")
	}

	if s.payments == nil {
		return "", fmt.Errorf("create checkout session: payment provider: %w", core.ErrNotConfigured)
	}

	state, err := s.repo.GetState(ctx, uid)
	if err != nil {
		return "", err
	}

	if !state.IsProvider() {
		return "", core.Reason(core.ErrInvalidInput, "only provider accounts can subscribe")
	}

	if state.IsActive() {
		return "", core.Reason(core.ErrInvalidInput, "subscription already active")
	}

	req := CheckoutRequest{
		UserID: uid,
		Email:  state.Email,
	}
	if state.CustomerRef != nil {
		req.CustomerRef = *state.CustomerRef
	}

	session, err := s.payments.CreateCheckoutSession(ctx, req)
	if err != nil {
		return "", err
	}

	return session.URL, nil
}

// ConfirmSession is the client-driven fallback for a delayed webhook. The
// session is fetched from the payment provider, never trusted from the
// client, and must belong to uid and be paid.
func (s *Service) ConfirmSession(
	ctx context.Context,
	uid, sessionID string,
) (*State, error) {
	if s.payments == nil {
		return nil, fmt.Errorf("confirm session: payment provider: %w", core.ErrNotConfigured)
	}

	ctx, span := core.StartSpan(ctx, "subscription.confirm_session",
		attribute.String("session.id", sessionID),
	)
	defer span.End()

	session, err := s.payments.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.OwnerID() != uid {
		return nil, core.Reason(core.ErrForbidden, "checkout session belongs to another user")
	}

	if !session.Paid() {
		return nil, core.Reason(core.ErrInvalidInput, "payment not completed")
	}

	return s.activate(ctx, uid, session.CreatedAt, session.Refs())
}

// RequestCancellation asks the payment provider to end the subscription at
// the close of the current period. Local status is untouched until the
// provider reports the deletion.
func (s *Service) RequestCancellation(ctx context.Context, uid string) error {
	if s.payments == nil {
		return fmt.Errorf("request cancellation: payment provider: %w", core.ErrNotConfigured)
	}

	state, err := s.repo.GetState(ctx, uid)
	if err != nil {
		return err
	}

	if state.SubscriptionRef == nil || *state.SubscriptionRef == "" {
		return core.Reason(core.ErrInvalidInput, "no subscription to cancel")
	}

	return s.payments.CancelAtPeriodEnd(ctx, *state.SubscriptionRef)
}

type FinalizeResult struct {
	RequireSubscription bool
	State               *State
}

// FinalizeSignup completes provider onboarding. With the paid requirement
// switched off the provider is activated here; otherwise the caller is told
// to go through checkout.
func (s *Service) FinalizeSignup(ctx context.Context, uid string) (*FinalizeResult, error) {
	state, err := s.repo.GetState(ctx, uid)
	if err != nil {
		return nil, err
	}

	if !state.IsProvider() {
		return nil, core.Reason(core.ErrInvalidInput, "account is not a provider")
	}

	if s.cfg.Required {
		return &FinalizeResult{RequireSubscription: !state.IsActive(), State: state}, nil
	}

	activated, err := s.activate(ctx, uid, s.now(), Refs{})
	if err != nil {
		return nil, err
	}
	return &FinalizeResult{State: activated}, nil
}

// GrantFreeAccess is the operator override that activates a provider
// without payment.
func (s *Service) GrantFreeAccess(ctx context.Context, uid string) (*State, error) {
	s.logger.Info("granting free provider access", "user_id", uid)
	return s.activate(ctx, uid, s.now(), Refs{})
}

func (s *Service) Status(ctx context.Context, uid string) (*State, error) {
	return s.repo.GetState(ctx, uid)
}

// Required reports whether providers must pay to publish.
func (s *Service) Required() bool {
	return s.cfg.Required
}

func (s *Service) activate(
	ctx context.Context,
	uid string,
	at time.Time,
	refs Refs,
) (*State, error) {
	var (
		result      *State
		newlyActive bool
	)

	err := core.Retry(ctx, s.cfg.Retry, "activate subscription", func() error {
		newlyActive = false

		state, err := s.repo.GetState(ctx, uid)
		if err != nil {
			return err
		}

		if !state.IsProvider() {
			return core.Reason(core.ErrInvalidInput, "account is not a provider")
		}

		next, changed := state.Activate(at, refs)
		if !changed {
			if !state.IsActive() {
				s.logger.Info("stale activation ignored",
					"user_id", uid,
					"signal_at", at,
					"status", state.StatusValue(),
				)
			}
			result = state
			return nil
		}

		if err := s.repo.CompareAndSwap(ctx, state.Version, next); err != nil {
			return err
		}

		next.Version = state.Version + 1
		result = &next
		newlyActive = !state.IsActive()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if newlyActive {
		s.logger.Info("subscription activated", "user_id", uid)
		s.sendNotice(ctx, result.Email, notify.Message{
			Subject: "Assinatura ativada",
			Body:    "Sua assinatura de prestador está ativa. Seu perfil já pode ser publicado.",
		})
	}

	return result, nil
}

// sendNotice mails the account owner without holding up the caller.
// Delivery failures are logged and dropped.
func (s *Service) sendNotice(ctx context.Context, to string, msg notify.Message) {
	if s.mailer == nil || to == "" {
		return
	}

	msg.To = to
	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()

		if err := s.mailer.Send(sendCtx, msg); err != nil {
			s.logger.Warn("subscription notice not sent", "to", to, "error", err)
		}
	}()
}
