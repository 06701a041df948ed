// Package auth issues and verifies the bearer tokens that identify accounts.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for any token that does not verify.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNoSecret is returned when a TokenManager has no signing key.
	ErrNoSecret = errors.New("JWT secret not configured")
)

// Claims is the token payload. Without a TTL it serialises as {"id": "..."}.
type Claims struct {
	AccountID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 session tokens with a shared secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager returns a manager for secret. A zero ttl issues tokens
// without an expiry claim.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token embedding accountID.
func (m *TokenManager) Issue(accountID string) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrNoSecret
	}
	if accountID == "" {
		return "", errors.New("account id is required")
	}

	claims := Claims{AccountID: accountID}
	if m.ttl > 0 {
		now := m.now()
		claims.IssuedAt = jwt.NewNumericDate(now)
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature of tokenString and returns the embedded account id.
// Every failure is reported as ErrInvalidToken wrapping the cause.
func (m *TokenManager) Verify(tokenString string) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrNoSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.AccountID == "" {
		return "", ErrInvalidToken
	}
	return claims.AccountID, nil
}
