package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terravest/backend/internal/domain/shared"
	"github.com/terravest/backend/internal/infrastructure/config"
)

func testJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-that-is-long-enough",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "terravest-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := testJWTService()
	memberID := uuid.New()

	t.Run("round trip preserves identity and role", func(t *testing.T) {
		issued, err := service.GenerateToken(memberID, shared.RoleManager)
		require.NoError(t, err)
		assert.Equal(t, "Bearer", issued.TokenType)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), issued.ExpiresAt, 5*time.Second)

		claims, err := service.ValidateToken(issued.Token)
		require.NoError(t, err)
		assert.Equal(t, memberID.String(), claims.MemberID)
		assert.Equal(t, "MANAGER", claims.Role)

		caller, err := claims.Caller()
		require.NoError(t, err)
		assert.Equal(t, memberID, caller.ID)
		assert.Equal(t, shared.RoleManager, caller.Role)
	})

	t.Run("rejects an unknown role at generation", func(t *testing.T) {
		_, err := service.GenerateToken(memberID, shared.Role("SUPERUSER"))
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("rejects a tampered token", func(t *testing.T) {
		issued, err := service.GenerateToken(memberID, shared.RoleInvestor)
		require.NoError(t, err)

		_, err = service.ValidateToken(issued.Token + "x")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a token signed with a different secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "a-completely-different-secret-key-here",
			AccessTokenExpiration: 15 * time.Minute,
			Issuer:                "terravest-test",
		})
		issued, err := other.GenerateToken(memberID, shared.RoleInvestor)
		require.NoError(t, err)

		_, err = service.ValidateToken(issued.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		shortLived := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-that-is-long-enough",
			AccessTokenExpiration: -1 * time.Minute,
			Issuer:                "terravest-test",
		})
		issued, err := shortLived.GenerateToken(memberID, shared.RoleInvestor)
		require.NoError(t, err)

		_, err = shortLived.ValidateToken(issued.Token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects a token from another issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-that-is-long-enough",
			AccessTokenExpiration: 15 * time.Minute,
			Issuer:                "some-other-service",
		})
		issued, err := other.GenerateToken(memberID, shared.RoleInvestor)
		require.NoError(t, err)

		_, err = service.ValidateToken(issued.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestClaims_Caller(t *testing.T) {
	t.Run("fails on malformed member id", func(t *testing.T) {
		claims := &Claims{MemberID: "not-a-uuid", Role: "INVESTOR"}
		_, err := claims.Caller()
		assert.ErrorIs(t, err, ErrMissingMemberID)
	})

	t.Run("fails on unknown role", func(t *testing.T) {
		claims := &Claims{MemberID: uuid.New().String(), Role: "WIZARD"}
		_, err := claims.Caller()
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestClaims_RemainingTTL(t *testing.T) {
	service := testJWTService()
	issued, err := service.GenerateToken(uuid.New(), shared.RoleInvestor)
	require.NoError(t, err)

	claims, err := service.ValidateToken(issued.Token)
	require.NoError(t, err)

	ttl := claims.RemainingTTL()
	assert.Greater(t, ttl, 14*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute)
}
