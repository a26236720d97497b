// AngelaMos | 2026
// config_test.go

package config

import (
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadWith(t *testing.T, overrides map[string]any) (*Config, error) {
	t.Helper()

	k := koanf.New(".")
	require.NoError(t, loadDefaults(k))
	for key, value := range overrides {
		require.NoError(t, k.Set(key, value))
	}

	c := &Config{}
	require.NoError(t, k.Unmarshal("", c))

	return c, validate(c)
}

func required() map[string]any {
	return map[string]any{
		"database.url": "postgres://localhost/chaama",
		"redis.url":    "redis://localhost:6379/0",
	}
}

func TestDefaults(t *testing.T) {
	c, err := loadWith(t, required())
	require.NoError(t, err)

	assert.Equal(t, time.Hour, c.Campaigns.SweepInterval)
	assert.Equal(t, []int{3, 7, 30}, c.Campaigns.PlanDays)
	assert.True(t, c.Subscription.Required)
	assert.Equal(t, 5, c.Reviews.MaxAttempts)
	assert.Equal(t, time.Minute, c.RateLimit.Window)
	assert.Equal(t, 10, c.RateLimit.WriteRequests)
	assert.Equal(t, int64(5<<20), c.Storage.MaxUploadSize)
	assert.False(t, c.Storage.Enabled())
	assert.False(t, c.Mail.Enabled())
	assert.False(t, c.Stripe.Configured())
	assert.Equal(t, "0.0.0.0:8080", c.Server.Address())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]any
		wantErr string
	}{
		{"missing database", map[string]any{"database.url": ""}, "DATABASE_URL"},
		{"missing redis", map[string]any{"redis.url": ""}, "REDIS_URL"},
		{"wildcard origin with credentials", map[string]any{"cors.allowed_origins": []string{"*"}}, "CORS wildcard"},
		{"zero sweep interval", map[string]any{"campaigns.sweep_interval": "0s"}, "sweep_interval"},
		{"non-positive plan", map[string]any{"campaigns.plan_days": []int{7, 0}}, "plan_days must be positive"},
		{"no review attempts", map[string]any{"reviews.max_attempts": 0}, "max_attempts"},
		{"zero write budget", map[string]any{"rate_limit.write_requests": 0}, "request budgets"},
		{"zero rate window", map[string]any{"rate_limit.window": "0s"}, "rate_limit.window"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overrides := required()
			for key, value := range tt.set {
				overrides[key] = value
			}

			_, err := loadWith(t, overrides)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvKeyReplacer(t *testing.T) {
	assert.Equal(t, "subscription.required", envKeyReplacer("REQUIRE_STRIPE_SUBSCRIPTION"))
	assert.Equal(t, "storage.endpoint", envKeyReplacer("MINIO_ENDPOINT"))
	assert.Equal(t, "", envKeyReplacer("HOME"))
}
