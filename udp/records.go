// Package udp implements an encrypted UDP socket with a DTLS-style
// cookie handshake. Clients prove their address with an HMAC cookie,
// authenticate with a token, and then exchange AES-encrypted records
// prefixed with a session ID.
package udp

import "github.com/google/uuid"

// Record types exchanged during and after the handshake.
const (
	ClientHelloRecordType byte = 1 << iota
	HelloVerifyRecordType
	ServerHelloRecordType
	PingRecordType
	PongRecordType
	UnAuthenticatedRecordType
)

// HandshakeRecord carries the handshake fields. Which fields are set
// depends on the step: the first client hello has Random and Key, the
// second adds Cookie and Token, and the server hello returns SessionID.
type HandshakeRecord struct {
	SessionID []byte
	Random    []byte
	Cookie    []byte
	Token     []byte
	Key       []byte
	Timestamp int64
}

// PingRecord is a client heartbeat.
type PingRecord struct {
	SentAt int64
}

// PongRecord answers a ping with server-side timing.
type PongRecord struct {
	PingSentAt int64
	ReceivedAt int64
	SentAt     int64
}

// Encoder marshals the socket's own record types.
type Encoder interface {
	MarshalHandshake(*HandshakeRecord) ([]byte, error)
	UnmarshalHandshake([]byte) (*HandshakeRecord, error)
	UnmarshalPing([]byte) (*PingRecord, error)
	MarshalPong(*PongRecord) ([]byte, error)
}

// Asymmetric decrypts handshake payloads and exposes the public key
// clients encrypt them with.
type Asymmetric interface {
	Decrypt([]byte) ([]byte, error)
	PublicKey() []byte
}

// Symmetric encrypts and decrypts record bodies with a shared key.
type Symmetric interface {
	Encrypt(data, key []byte) ([]byte, error)
	Decrypt(data, key []byte) ([]byte, error)
}

// Authenticator an interface for authenticating the client token
type Authenticator interface {
	Authenticate([]byte) (uuid.UUID, error)
}
