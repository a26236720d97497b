// AngelaMos | 2026
// entity.go

package account

import (
	"time"
)

type Account struct {
	ID                     string     `db:"id"`
	Email                  string     `db:"email"`
	Name                   string     `db:"name"`
	Phone                  string     `db:"phone"`
	City                   string     `db:"city"`
	Type                   string     `db:"account_type"`
	SubscriptionStatus     *Status    `db:"subscription_status"`
	PaymentCustomerRef     *string    `db:"payment_customer_ref"`
	PaymentSubscriptionRef *string    `db:"payment_subscription_ref"`
	SubscriptionEventAt    *time.Time `db:"subscription_event_at"`
	SubscriptionVersion    int        `db:"subscription_version"`
	CreatedAt              time.Time  `db:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at"`
}

func (a *Account) IsProvider() bool {
	return a.Type == TypeProvider
}

// HasActiveSubscription is the single gate for paid provider features.
func (a *Account) HasActiveSubscription() bool {
	return a.IsProvider() &&
		a.SubscriptionStatus != nil &&
		*a.SubscriptionStatus == StatusActive
}

const (
	TypeClient   = "client"
	TypeProvider = "provider"
)

// Status is a provider's subscription state. Clients have none.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
	StatusPastDue  Status = "past_due"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCanceled, StatusPastDue:
		return true
	}
	return false
}
