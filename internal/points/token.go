// Package points issues and verifies the QR claim tokens shown at workshops.
//
// A token names its event and expiry and is authenticated with a keyed
// BLAKE2b MAC, so any instance sharing the secret can verify it without a
// lookup.
package points

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"deerhacks-service/internal/domain"
	"golang.org/x/crypto/blake2b"
)

// DefaultTokenTTL is how long a displayed QR code stays claimable.
const DefaultTokenTTL = 30 * time.Second

// Signer mints and checks claim tokens.
type Signer struct {
	key []byte
	ttl time.Duration
}

// NewSigner returns a signer keyed by secret, which must be 1 to 64 bytes.
func NewSigner(secret []byte, ttl time.Duration) (*Signer, error) {
	if len(secret) == 0 || len(secret) > blake2b.Size {
		return nil, fmt.Errorf("token secret must be 1-%d bytes, got %d", blake2b.Size, len(secret))
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Signer{key: append([]byte(nil), secret...), ttl: ttl}, nil
}

// TTL returns the lifetime of issued tokens.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Issue mints a token for eventID valid until now+TTL.
func (s *Signer) Issue(eventID int64, now time.Time) domain.ClaimToken {
	expires := now.Add(s.ttl).Truncate(time.Second)
	payload := strconv.FormatInt(eventID, 10) + "." + strconv.FormatInt(expires.Unix(), 10)
	return domain.ClaimToken{
		Token:     payload + "." + base64.RawURLEncoding.EncodeToString(s.mac(payload)),
		EventID:   eventID,
		ExpiresAt: expires,
		ExpiresIn: int(expires.Sub(now) / time.Second),
	}
}

// Verify checks token against eventID. A forged, malformed or foreign token
// yields ErrInvalidToken; a genuine one past its expiry yields ErrTokenExpired.
func (s *Signer) Verify(token string, eventID int64, now time.Time) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return domain.ErrInvalidToken
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return domain.ErrInvalidToken
	}
	payload := parts[0] + "." + parts[1]
	if subtle.ConstantTimeCompare(sig, s.mac(payload)) != 1 {
		return domain.ErrInvalidToken
	}

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id != eventID {
		return domain.ErrInvalidToken
	}
	expiry, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return domain.ErrInvalidToken
	}
	if now.After(time.Unix(expiry, 0)) {
		return domain.ErrTokenExpired
	}
	return nil
}

func (s *Signer) mac(payload string) []byte {
	// key length is checked in NewSigner, so New256 cannot fail here
	h, _ := blake2b.New256(s.key)
	h.Write([]byte(payload))
	return h.Sum(nil)
}
