// AngelaMos | 2026
// state_test.go

package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/josealexandro/chaama/internal/account"
)

func providerState(status account.Status, eventAt *time.Time) State {
	return State{
		UserID:      "p1",
		AccountType: account.TypeProvider,
		Status:      &status,
		EventAt:     eventAt,
	}
}

func TestActivate(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)
	refs := Refs{CustomerRef: "cus_1", SubscriptionRef: "sub_1"}

	t.Run("pending becomes active with refs", func(t *testing.T) {
		next, changed := providerState(account.StatusPending, nil).Activate(t0, refs)

		assert.True(t, changed)
		assert.Equal(t, account.StatusActive, next.StatusValue())
		assert.Equal(t, "cus_1", *next.CustomerRef)
		assert.Equal(t, "sub_1", *next.SubscriptionRef)
		assert.Equal(t, t0, *next.EventAt)
	})

	t.Run("same completion twice is a no-op", func(t *testing.T) {
		first, _ := providerState(account.StatusPending, nil).Activate(t0, refs)
		second, changed := first.Activate(t0, refs)

		assert.False(t, changed)
		assert.Equal(t, first, second)
	})

	t.Run("completion older than cancellation is stale", func(t *testing.T) {
		canceled := providerState(account.StatusCanceled, &t1)

		next, changed := canceled.Activate(t0, refs)

		assert.False(t, changed)
		assert.Equal(t, account.StatusCanceled, next.StatusValue())
	})

	t.Run("new checkout after cancellation reactivates", func(t *testing.T) {
		canceled := providerState(account.StatusCanceled, &t0)

		next, changed := canceled.Activate(t1, Refs{SubscriptionRef: "sub_2"})

		assert.True(t, changed)
		assert.Equal(t, account.StatusActive, next.StatusValue())
		assert.Equal(t, "sub_2", *next.SubscriptionRef)
	})

	t.Run("empty refs keep stored ones", func(t *testing.T) {
		cus := "cus_1"
		state := providerState(account.StatusPastDue, nil)
		state.CustomerRef = &cus

		next, changed := state.Activate(t0, Refs{})

		assert.True(t, changed)
		assert.Equal(t, "cus_1", *next.CustomerRef)
		assert.Nil(t, next.SubscriptionRef)
	})
}

func TestCancel(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	tests := []struct {
		name        string
		state       State
		at          time.Time
		wantChanged bool
		wantStatus  account.Status
	}{
		{"active is canceled", providerState(account.StatusActive, &t0), t1, true, account.StatusCanceled},
		{"past due is canceled", providerState(account.StatusPastDue, nil), t1, true, account.StatusCanceled},
		{"already canceled", providerState(account.StatusCanceled, &t0), t1, false, account.StatusCanceled},
		{"pending never canceled", providerState(account.StatusPending, nil), t1, false, account.StatusPending},
		{"deletion older than activation", providerState(account.StatusActive, &t1), t0, false, account.StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, changed := tt.state.Cancel(tt.at)

			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantStatus, next.StatusValue())
		})
	}
}
