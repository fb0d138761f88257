// Package crypto provides the primitives for the socket handshake:
// RSA-OAEP for the hello records, AES-GCM for everything after, and
// HMAC-SHA256 for cookies and session IDs.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"errors"
)

var (
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	ErrInvalidPublicKey   = errors.New("invalid public key")
)

// RSA decrypts handshake records with a private key and publishes the
// matching public key for clients.
type RSA struct {
	privateKey *rsa.PrivateKey
	publicPEM  []byte
}

// NewRSA generates a fresh key pair of the given bit size.
func NewRSA(bits int) (*RSA, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, err
	}

	der, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, err
	}

	return &RSA{
		privateKey: privateKey,
		publicPEM:  pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}),
	}, nil
}

// Decrypt decrypts an OAEP ciphertext with the private key.
func (r *RSA) Decrypt(data []byte) ([]byte, error) {
	return rsa.DecryptOAEP(sha256.New(), rand.Reader, r.privateKey, data, nil)
}

// PublicKey returns the PEM-encoded public key.
func (r *RSA) PublicKey() []byte {
	return r.publicPEM
}

// EncryptWithPublicKey encrypts data for the holder of the PEM-encoded
// public key. The server never calls this; it exists for clients and
// tests.
func EncryptWithPublicKey(data, publicPEM []byte) ([]byte, error) {
	block, _ := pem.Decode(publicPEM)
	if block == nil {
		return nil, ErrInvalidPublicKey
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	publicKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, ErrInvalidPublicKey
	}

	return rsa.EncryptOAEP(sha256.New(), rand.Reader, publicKey, data, nil)
}

// AES encrypts and decrypts record bodies with AES-GCM. The nonce is
// prepended to each ciphertext.
type AES struct{}

// Encrypt seals data under the key with a random nonce.
func (a *AES) Encrypt(data, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, data, nil), nil
}

// Decrypt opens a ciphertext produced by Encrypt.
func (a *AES) Decrypt(data, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(data) < gcm.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// HMAC computes an HMAC-SHA256 over the concatenated params.
func HMAC(key []byte, params ...[]byte) []byte {
	mac := hmac.New(sha256.New, key)
	for _, p := range params {
		mac.Write(p)
	}
	return mac.Sum(nil)
}

// HMACEqual compares two MACs in constant time.
func HMACEqual(a, b []byte) bool {
	return hmac.Equal(a, b)
}
