package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dicomgate/pkg/domain"
	dErrors "dicomgate/pkg/domain-errors"
)

func TestValidateToken(t *testing.T) {
	svc := NewJWTService("test-signing-key", "dicomgate-test")

	t.Run("round trip resolves principal", func(t *testing.T) {
		token, err := svc.GenerateAccessToken("alice", domain.RoleUser, time.Minute)
		require.NoError(t, err)

		principal, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", principal.Subject)
		assert.Equal(t, domain.RoleUser, principal.Role)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		token, err := svc.GenerateAccessToken("alice", domain.RoleUser, -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	t.Run("wrong signing key rejected", func(t *testing.T) {
		other := NewJWTService("another-key", "dicomgate-test")
		token, err := other.GenerateAccessToken("alice", domain.RoleAdmin, time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		token, err := svc.GenerateAccessToken("alice", domain.Role("superuser"), time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-jwt")
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})
}
