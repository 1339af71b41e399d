package session

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GuestIssuer mints and validates the gateway-signed session cookie.
// The cookie only identifies the browser session; upstream access and
// refresh tokens stay opaque and are never minted locally.
type GuestIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewGuestIssuer builds a new issuer.
func NewGuestIssuer(secret string, ttl time.Duration) *GuestIssuer {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &GuestIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a fresh session ID and its signed cookie value.
func (g *GuestIssuer) Issue() (string, string, error) {
	sid := uuid.NewString()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sid,
		ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", "", err
	}
	return sid, signed, nil
}

// Parse validates a cookie value and returns the session ID.
func (g *GuestIssuer) Parse(signed string) (string, error) {
	parsed, err := jwt.ParseWithClaims(signed, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return g.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", errors.New("invalid session claims")
	}
	return claims.Subject, nil
}
