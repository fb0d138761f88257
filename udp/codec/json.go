// Package codec implements the socket's record encoder with JSON.
package codec

import (
	"encoding/json"

	"github.com/charlie572/Blind-Maze-Game/udp"
)

var _ udp.Encoder = &JSON{}

// JSON encodes socket records as JSON objects.
type JSON struct{}

type handshakeRecord struct {
	SessionID []byte `json:"session_id,omitempty"`
	Random    []byte `json:"random,omitempty"`
	Cookie    []byte `json:"cookie,omitempty"`
	Token     []byte `json:"token,omitempty"`
	Key       []byte `json:"key,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

type pingRecord struct {
	SentAt int64 `json:"sent_at"`
}

type pongRecord struct {
	PingSentAt int64 `json:"ping_sent_at"`
	ReceivedAt int64 `json:"received_at"`
	SentAt     int64 `json:"sent_at"`
}

// MarshalHandshake implements udp.Encoder.
func (j *JSON) MarshalHandshake(h *udp.HandshakeRecord) ([]byte, error) {
	return json.Marshal(handshakeRecord{
		SessionID: h.SessionID,
		Random:    h.Random,
		Cookie:    h.Cookie,
		Token:     h.Token,
		Key:       h.Key,
		Timestamp: h.Timestamp,
	})
}

// UnmarshalHandshake implements udp.Encoder.
func (j *JSON) UnmarshalHandshake(b []byte) (*udp.HandshakeRecord, error) {
	var record handshakeRecord
	if err := json.Unmarshal(b, &record); err != nil {
		return nil, err
	}
	return &udp.HandshakeRecord{
		SessionID: record.SessionID,
		Random:    record.Random,
		Cookie:    record.Cookie,
		Token:     record.Token,
		Key:       record.Key,
		Timestamp: record.Timestamp,
	}, nil
}

// UnmarshalPing implements udp.Encoder.
func (j *JSON) UnmarshalPing(b []byte) (*udp.PingRecord, error) {
	var record pingRecord
	if err := json.Unmarshal(b, &record); err != nil {
		return nil, err
	}
	return &udp.PingRecord{SentAt: record.SentAt}, nil
}

// MarshalPong implements udp.Encoder.
func (j *JSON) MarshalPong(p *udp.PongRecord) ([]byte, error) {
	return json.Marshal(pongRecord{
		PingSentAt: p.PingSentAt,
		ReceivedAt: p.ReceivedAt,
		SentAt:     p.SentAt,
	})
}
