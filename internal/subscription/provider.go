// AngelaMos | 2026
// provider.go

package subscription

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// PaymentProvider is the hosted checkout and recurring billing service.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	CancelAtPeriodEnd(ctx context.Context, subscriptionRef string) error
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

type CheckoutRequest struct {
	UserID      string
	Email       string
	CustomerRef string
}

const PaymentStatusPaid = "paid"

type CheckoutSession struct {
	ID                string
	URL               string
	MetadataUserID    string
	ClientReferenceID string
	PaymentStatus     string
	CustomerRef       string
	SubscriptionRef   string
	CreatedAt         time.Time
}

// OwnerID is the user the session was created for. Metadata wins over the
// client reference when both are present.
func (c *CheckoutSession) OwnerID() string {
	if c.MetadataUserID != "" {
		return c.MetadataUserID
	}
	return c.ClientReferenceID
}

func (c *CheckoutSession) Paid() bool {
	return c.PaymentStatus == PaymentStatusPaid
}

func (c *CheckoutSession) Refs() Refs {
	return Refs{
		CustomerRef:     c.CustomerRef,
		SubscriptionRef: c.SubscriptionRef,
	}
}

type EventType string

const (
	EventCheckoutCompleted   EventType = "checkout.session.completed"
	EventSubscriptionDeleted EventType = "customer.subscription.deleted"
)

type Event struct {
	ID              string
	Type            EventType
	CreatedAt       time.Time
	Session         *CheckoutSession
	SubscriptionRef string
}
