// AngelaMos | 2026
// stripe.go

package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/josealexandro/chaama/internal/config"
	"github.com/josealexandro/chaama/internal/core"
	"github.com/josealexandro/chaama/internal/subscription"
)

// Stripe implements subscription.PaymentProvider. One client is built per
// process and shared by every request.
type Stripe struct {
	api           *client.API
	priceID       string
	webhookSecret string
	successURL    string
	cancelURL     string
}

// NewStripe returns nil when no secret key is configured, which the
// reconciler treats as "payment provider not configured".
func NewStripe(cfg config.StripeConfig) *Stripe {
	if cfg.SecretKey == "" {
		return nil
	}

	return &Stripe{
		api:           client.New(cfg.SecretKey, nil),
		priceID:       cfg.PriceID,
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
	}
}

func (s *Stripe) CreateCheckoutSession(
	ctx context.Context,
	req subscription.CheckoutRequest,
) (*subscription.CheckoutSession, error) {
	if s.priceID == "" {
		return nil, fmt.Errorf("create checkout session: price id: %w", core.ErrNotConfigured)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		ClientReferenceID: stripe.String(req.UserID),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"uid": req.UserID},
		},
	}
	params.Context = ctx
	params.AddMetadata("uid", req.UserID)

	switch {
	case req.CustomerRef != "":
		params.Customer = stripe.String(req.CustomerRef)
	case req.Email != "":
		params.CustomerEmail = stripe.String(req.Email)
	}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, wrapStripeError("create checkout session", err)
	}

	return toCheckoutSession(sess), nil
}

func (s *Stripe) GetCheckoutSession(
	ctx context.Context,
	sessionID string,
) (*subscription.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, wrapStripeError("get checkout session", err)
	}

	return toCheckoutSession(sess), nil
}

func (s *Stripe) CancelAtPeriodEnd(ctx context.Context, subscriptionRef string) error {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	params.Context = ctx

	if _, err := s.api.Subscriptions.Update(subscriptionRef, params); err != nil {
		return wrapStripeError("cancel subscription", err)
	}

	return nil
}

// ParseWebhook verifies the signature over the raw payload and decodes the
// event objects the reconciler acts on.
func (s *Stripe) ParseWebhook(
	payload []byte,
	signature string,
) (*subscription.Event, error) {
	if s.webhookSecret == "" {
		return nil, fmt.Errorf("parse webhook: webhook secret: %w", core.ErrNotConfigured)
	}

	return parseEvent(payload, signature, s.webhookSecret)
}

func parseEvent(payload []byte, signature, secret string) (*subscription.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", subscription.ErrInvalidSignature, err)
	}

	out := &subscription.Event{
		ID:        event.ID,
		Type:      subscription.EventType(event.Type),
		CreatedAt: time.Unix(event.Created, 0).UTC(),
	}

	if event.Data == nil {
		return out, nil
	}

	switch out.Type {
	case subscription.EventCheckoutCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		out.Session = toCheckoutSession(&sess)
	case subscription.EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		out.SubscriptionRef = sub.ID
	}

	return out, nil
}

func toCheckoutSession(sess *stripe.CheckoutSession) *subscription.CheckoutSession {
	out := &subscription.CheckoutSession{
		ID:                sess.ID,
		URL:               sess.URL,
		ClientReferenceID: sess.ClientReferenceID,
		PaymentStatus:     string(sess.PaymentStatus),
	}
	if sess.Created > 0 {
		out.CreatedAt = time.Unix(sess.Created, 0).UTC()
	}
	if sess.Metadata != nil {
		out.MetadataUserID = sess.Metadata["uid"]
	}
	if sess.Customer != nil {
		out.CustomerRef = sess.Customer.ID
	}
	if sess.Subscription != nil {
		out.SubscriptionRef = sess.Subscription.ID
	}
	return out
}

func wrapStripeError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, core.ErrUpstream, err)
}
