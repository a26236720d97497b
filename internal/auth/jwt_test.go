// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josealexandro/chaama/internal/config"
	"github.com/josealexandro/chaama/internal/core"
)

func newTestManager(t *testing.T, withPrivate bool) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")
	require.NoError(t, GenerateKeyPair(privatePath, publicPath))

	cfg := config.JWTConfig{
		PublicKeyPath:     publicPath,
		AccessTokenExpire: time.Minute,
		Issuer:            "chaama",
		Audience:          "chaama-api",
	}
	if withPrivate {
		cfg.PrivateKeyPath = privatePath
	}

	m, err := NewJWTManager(cfg)
	require.NoError(t, err)
	return m
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager(t, true)

	token, err := m.CreateAccessToken("provider-1", "user")
	require.NoError(t, err)

	claims, err := m.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "provider-1", claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.NotEmpty(t, m.GetKeyID())
}

func TestVerifyRejectsForeignToken(t *testing.T) {
	issuer := newTestManager(t, true)
	verifier := newTestManager(t, false)

	token, err := issuer.CreateAccessToken("provider-1", "user")
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestCreateWithoutPrivateKey(t *testing.T) {
	m := newTestManager(t, false)

	_, err := m.CreateAccessToken("provider-1", "user")
	assert.ErrorIs(t, err, core.ErrNotConfigured)
}
