package udp

import (
	"crypto/rand"
	"net"

	"github.com/charlie572/Blind-Maze-Game/udp/crypto"
	"github.com/google/uuid"
)

// secretSize is the byte length of the HMAC secrets and of the random
// half of a session ID.
const secretSize = 32

// SessionManager holds the server-side secrets behind handshake cookies
// and session IDs. Cookies and sessions use separate keys, so a leaked
// cookie says nothing about live sessions.
type SessionManager struct {
	sessionKey []byte
	cookieKey  []byte
}

// NewSessionManager draws fresh random secrets. Cookies and session IDs
// issued by one manager are worthless to any other.
func NewSessionManager() (*SessionManager, error) {
	sessionKey, err := newSecret()
	if err != nil {
		return nil, err
	}

	cookieKey, err := newSecret()
	if err != nil {
		return nil, err
	}

	return &SessionManager{
		sessionKey: sessionKey,
		cookieKey:  cookieKey,
	}, nil
}

// GetAddrCookieHMAC computes the handshake cookie for a UDP address,
// mixing any extra params into the MAC.
func (s *SessionManager) GetAddrCookieHMAC(addr *net.UDPAddr, params ...[]byte) []byte {
	return crypto.HMAC(s.cookieKey, append([][]byte{addr.IP}, params...)...)
}

// GenerateSessionID builds a session ID for an authenticated client: the
// session HMAC over the address and user ID, followed by fresh random
// bytes so concurrent sessions from one address stay distinct.
func (s *SessionManager) GenerateSessionID(addr *net.UDPAddr, userID uuid.UUID) ([]byte, error) {
	random, err := newSecret()
	if err != nil {
		return nil, err
	}

	mac := crypto.HMAC(s.sessionKey, addr.IP, []byte(userID.String()))
	return append(mac, random...), nil
}

func newSecret() ([]byte, error) {
	secret := make([]byte, secretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	return secret, nil
}
