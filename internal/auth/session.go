package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"inkwell_backend/internal/clock"
)

// DefaultSessionTTL is how long a session token stays valid.
const DefaultSessionTTL = 30 * 24 * time.Hour

var (
	ErrInvalidSession = errors.New("invalid session token")
	ErrWeakSecret     = errors.New("session secret must be at least 32 bytes")
)

// Claims is the session payload. Only the user id is asserted.
type Claims struct {
	UserID uint `json:"id"`
	jwt.RegisteredClaims
}

// SessionSigner signs and verifies HS256 session tokens.
// The secret is copied at construction and never changes afterwards.
type SessionSigner struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewSessionSigner(secret string, ttl time.Duration, clk clock.Clock) (*SessionSigner, error) {
	if len(secret) < 32 {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if clk == nil {
		clk = clock.New()
	}
	return &SessionSigner{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clk,
	}, nil
}

func (s *SessionSigner) TTL() time.Duration {
	return s.ttl
}

// Sign issues a token for userID expiring TTL from now.
func (s *SessionSigner) Sign(userID uint) (string, time.Time, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies the signature and expiry and returns the claims.
func (s *SessionSigner) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
