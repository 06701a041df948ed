package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func TestTokenManager_IssueVerifyRoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret, 0)

	token, err := m.Issue("acc-123")
	require.NoError(t, err)

	id, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-123", id)
}

func TestTokenManager_IssueWithoutTTLHasOnlyID(t *testing.T) {
	m := NewTokenManager(testSecret, 0)

	token, err := m.Issue("acc-123")
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, jwt.MapClaims{"id": "acc-123"}, claims)
	assert.Equal(t, "HS256", parsed.Method.Alg())
}

func TestTokenManager_IssueIsDeterministic(t *testing.T) {
	m := NewTokenManager(testSecret, 0)

	a, err := m.Issue("acc-123")
	require.NoError(t, err)
	b, err := m.Issue("acc-123")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTokenManager_Verify(t *testing.T) {
	m := NewTokenManager(testSecret, 0)
	valid, err := m.Issue("acc-123")
	require.NoError(t, err)
	other, err := m.Issue("acc-999")
	require.NoError(t, err)

	validParts := strings.Split(valid, ".")
	otherParts := strings.Split(other, ".")
	tampered := strings.Join([]string{validParts[0], otherParts[1], validParts[2]}, ".")

	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name  string
		token string
	}{
		{"Tampered Payload", tampered},
		{"Other Secret", sign(jwt.SigningMethodHS256, []byte("another-secret"), jwt.MapClaims{"id": "acc-123"})},
		{"Malformed", "not.a.jwt"},
		{"Empty", ""},
		{"Missing ID Claim", sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "acc-123"})},
		{"None Algorithm", sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"id": "acc-123"})},
		{"Expired", sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"id":  "acc-123",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := m.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Empty(t, id)
		})
	}
}

func TestTokenManager_TTL(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issuedAt }

	token, err := m.Issue("acc-123")
	require.NoError(t, err)

	m.now = func() time.Time { return issuedAt.Add(30 * time.Minute) }
	id, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-123", id)

	m.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RequiresSecret(t *testing.T) {
	m := NewTokenManager("", 0)

	_, err := m.Issue("acc-123")
	assert.ErrorIs(t, err, ErrNoSecret)

	_, err = m.Verify("anything")
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer   abc", "abc"},
		{"Token abc", "abc"},
		{"Bearer", ""},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, BearerToken(tt.header))
		})
	}
}
