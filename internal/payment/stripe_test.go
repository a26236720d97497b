// AngelaMos | 2026
// stripe_test.go

package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josealexandro/chaama/internal/config"
	"github.com/josealexandro/chaama/internal/core"
	"github.com/josealexandro/chaama/internal/subscription"
)

const testSecret = "whsec_test"

func sign(payload []byte, secret string, at time.Time) string {
	ts := fmt.Sprintf("%d", at.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + "." + string(payload)))
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestParseCheckoutCompleted(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"object": "event",
		"type": "checkout.session.completed",
		"created": 1700000100,
		"data": {"object": {
			"id": "cs_1",
			"object": "checkout.session",
			"client_reference_id": "p1",
			"metadata": {"uid": "p1"},
			"payment_status": "paid",
			"customer": "cus_1",
			"subscription": "sub_1",
			"created": 1700000000
		}}
	}`)

	event, err := parseEvent(payload, sign(payload, testSecret, time.Now()), testSecret)
	require.NoError(t, err)

	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, subscription.EventCheckoutCompleted, event.Type)
	require.NotNil(t, event.Session)
	assert.Equal(t, "p1", event.Session.OwnerID())
	assert.True(t, event.Session.Paid())
	assert.Equal(t, "cus_1", event.Session.CustomerRef)
	assert.Equal(t, "sub_1", event.Session.SubscriptionRef)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), event.Session.CreatedAt)
}

func TestParseSubscriptionDeleted(t *testing.T) {
	payload := []byte(`{
		"id": "evt_2",
		"object": "event",
		"type": "customer.subscription.deleted",
		"created": 1700000200,
		"data": {"object": {"id": "sub_1", "object": "subscription"}}
	}`)

	event, err := parseEvent(payload, sign(payload, testSecret, time.Now()), testSecret)
	require.NoError(t, err)

	assert.Equal(t, subscription.EventSubscriptionDeleted, event.Type)
	assert.Equal(t, "sub_1", event.SubscriptionRef)
	assert.Nil(t, event.Session)
}

func TestParseRejectsBadSignature(t *testing.T) {
	payload := []byte(`{"id": "evt_3", "object": "event", "type": "invoice.paid"}`)

	tests := []struct {
		name      string
		signature string
	}{
		{"wrong secret", sign(payload, "whsec_other", time.Now())},
		{"expired timestamp", sign(payload, testSecret, time.Now().Add(-time.Hour))},
		{"garbage header", "nonsense"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseEvent(payload, tt.signature, testSecret)
			assert.ErrorIs(t, err, subscription.ErrInvalidSignature)
		})
	}
}

func TestNewStripeUnconfigured(t *testing.T) {
	assert.Nil(t, NewStripe(config.StripeConfig{}))

	s := NewStripe(config.StripeConfig{SecretKey: "sk_test_123"})
	require.NotNil(t, s)

	_, err := s.ParseWebhook([]byte(`{}`), "t=1,v1=00")
	assert.ErrorIs(t, err, core.ErrNotConfigured)
}
