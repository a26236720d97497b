// AngelaMos | 2026
// state.go

package subscription

import (
	"time"

	"github.com/josealexandro/chaama/internal/account"
)

// State is the subscription slice of an account row. Version increments on
// every write and guards compare-and-swap updates.
type State struct {
	UserID          string          `db:"id"`
	Email           string          `db:"email"`
	AccountType     string          `db:"account_type"`
	Status          *account.Status `db:"subscription_status"`
	CustomerRef     *string         `db:"payment_customer_ref"`
	SubscriptionRef *string         `db:"payment_subscription_ref"`
	EventAt         *time.Time      `db:"subscription_event_at"`
	Version         int             `db:"subscription_version"`
}

// Refs are the payment provider references learned on activation. Empty
// fields leave the stored value untouched.
type Refs struct {
	CustomerRef     string
	SubscriptionRef string
}

func (s State) IsProvider() bool {
	return s.AccountType == account.TypeProvider
}

func (s State) IsActive() bool {
	return s.IsProvider() && s.Status != nil && *s.Status == account.StatusActive
}

func (s State) StatusValue() account.Status {
	if s.Status == nil {
		return ""
	}
	return *s.Status
}

// Activate applies a completed checkout observed at time at. Signals older
// than the last applied one are stale and ignored, so a replayed completion
// cannot revive a subscription canceled after it. Reapplying the same
// completion changes nothing.
func (s State) Activate(at time.Time, refs Refs) (State, bool) {
	if s.stale(at) {
		return s, false
	}

	next := s
	active := account.StatusActive
	next.Status = &active
	if refs.CustomerRef != "" {
		ref := refs.CustomerRef
		next.CustomerRef = &ref
	}
	if refs.SubscriptionRef != "" {
		ref := refs.SubscriptionRef
		next.SubscriptionRef = &ref
	}

	if s.StatusValue() == account.StatusActive &&
		equalRef(s.CustomerRef, next.CustomerRef) &&
		equalRef(s.SubscriptionRef, next.SubscriptionRef) {
		return s, false
	}

	next.EventAt = later(s.EventAt, at)
	return next, true
}

// Cancel applies a provider-side subscription deletion. Pending accounts
// never held a subscription and canceled ones are already there.
func (s State) Cancel(at time.Time) (State, bool) {
	switch s.StatusValue() {
	case account.StatusActive, account.StatusPastDue:
	default:
		return s, false
	}

	if s.stale(at) {
		return s, false
	}

	next := s
	canceled := account.StatusCanceled
	next.Status = &canceled
	next.EventAt = later(s.EventAt, at)
	return next, true
}

func (s State) stale(at time.Time) bool {
	return s.EventAt != nil && at.Before(*s.EventAt)
}

func later(current *time.Time, at time.Time) *time.Time {
	if current != nil && current.After(at) {
		t := *current
		return &t
	}
	return &at
}

func equalRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
