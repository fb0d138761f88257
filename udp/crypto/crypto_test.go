package crypto

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSA(t *testing.T) {
	rsaCrypto, err := NewRSA(2048)
	require.NoError(t, err)

	t.Run("round trip through the public key", func(t *testing.T) {
		message := []byte("client hello")
		ciphertext, err := EncryptWithPublicKey(message, rsaCrypto.PublicKey())
		require.NoError(t, err)

		plaintext, err := rsaCrypto.Decrypt(ciphertext)
		require.NoError(t, err)
		assert.Equal(t, message, plaintext)
	})

	t.Run("rejects garbage public keys", func(t *testing.T) {
		_, err := EncryptWithPublicKey([]byte("client hello"), []byte("not a key"))
		assert.ErrorIs(t, err, ErrInvalidPublicKey)
	})

	t.Run("rejects garbage ciphertext", func(t *testing.T) {
		_, err := rsaCrypto.Decrypt([]byte("not a ciphertext"))
		assert.Error(t, err)
	})
}

func TestAES(t *testing.T) {
	aesCrypto := &AES{}
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		message := []byte("record body")
		ciphertext, err := aesCrypto.Encrypt(message, key)
		require.NoError(t, err)
		assert.NotEqual(t, message, ciphertext)

		plaintext, err := aesCrypto.Decrypt(ciphertext, key)
		require.NoError(t, err)
		assert.Equal(t, message, plaintext)
	})

	t.Run("rejects the wrong key", func(t *testing.T) {
		ciphertext, err := aesCrypto.Encrypt([]byte("record body"), key)
		require.NoError(t, err)

		otherKey := make([]byte, 32)
		_, err = rand.Read(otherKey)
		require.NoError(t, err)

		_, err = aesCrypto.Decrypt(ciphertext, otherKey)
		assert.Error(t, err)
	})

	t.Run("rejects truncated ciphertext", func(t *testing.T) {
		_, err := aesCrypto.Decrypt([]byte("short"), key)
		assert.ErrorIs(t, err, ErrCiphertextTooShort)
	})
}

func TestHMAC(t *testing.T) {
	key := []byte("cookie secret")

	mac := HMAC(key, []byte("addr"), []byte("random"))
	assert.True(t, HMACEqual(mac, HMAC(key, []byte("addr"), []byte("random"))))
	assert.False(t, HMACEqual(mac, HMAC(key, []byte("addr"), []byte("other"))))
	assert.False(t, HMACEqual(mac, HMAC([]byte("other secret"), []byte("addr"), []byte("random"))))
}
