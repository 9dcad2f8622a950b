package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taktakmenu/platform/internal/config"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/types"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher(t *testing.T) {
	h := NewHasherWithCost(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, h.Verify(hash, "secret1"))
	assert.False(t, h.Verify(hash, "secret2"))

	_, err = h.Hash("short")
	assert.True(t, ierr.IsValidation(err))
}

func TestTokenProvider_RoundTrip(t *testing.T) {
	p := NewTokenProvider(config.GetDefaultConfig())

	token, expiresAt, err := p.GenerateToken("user_1", "tenant_1", types.UserRoleSuperAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := p.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user_1", claims.UserID)
	assert.Equal(t, "tenant_1", claims.TenantID)
	assert.Equal(t, types.UserRoleSuperAdmin, claims.Role)
}

func TestTokenProvider_Rejects(t *testing.T) {
	cfg := config.GetDefaultConfig()
	p := NewTokenProvider(cfg)

	t.Run("wrong secret", func(t *testing.T) {
		other := config.GetDefaultConfig()
		other.Auth.Secret = "another-secret"
		token, _, err := NewTokenProvider(other).GenerateToken("user_1", "", types.UserRoleSysAdmin)
		require.NoError(t, err)

		_, err = p.ValidateToken(token)
		assert.True(t, ierr.IsUnauthorized(err))
	})

	t.Run("expired", func(t *testing.T) {
		expired := &jwtProvider{
			secret: []byte(cfg.Auth.Secret),
			ttl:    time.Minute,
			now:    func() time.Time { return time.Now().Add(-time.Hour) },
		}
		token, _, err := expired.GenerateToken("user_1", "tenant_1", types.UserRoleUser)
		require.NoError(t, err)

		_, err = p.ValidateToken(token)
		assert.True(t, ierr.IsUnauthorized(err))
	})

	t.Run("unsigned", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user_1", Role: types.UserRoleSysAdmin}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = p.ValidateToken(token)
		assert.True(t, ierr.IsUnauthorized(err))
	})
}
