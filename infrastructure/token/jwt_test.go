package token

import (
	"crypto/rand"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSecretKey(t *testing.T) string {
	t.Helper()
	secret := make([]byte, 32)
	_, err := rand.Read(secret)
	require.NoError(t, err)
	return base64.URLEncoding.EncodeToString(secret)
}

func TestJwtService(t *testing.T) {
	svc := NewJwtService(newSecretKey(t), "blind-maze")

	t.Run("round-trips claims", func(t *testing.T) {
		token, err := svc.Generate(map[string]interface{}{
			"userID":   "0be9c1ff-3e3b-4856-96b1-a9c9fa50cee1",
			"username": "wanderer",
		}, 5*time.Minute)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, "wanderer", claims["username"])
		assert.Equal(t, "0be9c1ff-3e3b-4856-96b1-a9c9fa50cee1", claims["userID"])
	})

	t.Run("stamps the issuer claim", func(t *testing.T) {
		token, err := svc.Generate(map[string]interface{}{}, 5*time.Minute)
		require.NoError(t, err)

		claims, err := svc.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, "blind-maze", claims["iss"])
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		_, err := svc.Decode("not.a.token")
		assert.Error(t, err)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		token, err := svc.Generate(map[string]interface{}{"username": "wanderer"}, -time.Minute)
		require.NoError(t, err)

		_, err = svc.Decode(token)
		assert.Error(t, err)
	})

	t.Run("rejects a token signed with another key", func(t *testing.T) {
		other := NewJwtService(newSecretKey(t), "blind-maze")
		token, err := other.Generate(map[string]interface{}{}, 5*time.Minute)
		require.NoError(t, err)

		_, err = svc.Decode(token)
		assert.Error(t, err)
	})
}
