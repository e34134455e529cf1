package upstream

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestSession_Authorization(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		want    string
	}{
		{"anonymous", Session{}, ""},
		{"default type", Session{Token: "abc"}, "Bearer abc"},
		{"explicit type", Session{Token: "abc", TokenType: "Token"}, "Token abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.session.Authorization())
		})
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, Session{}.Expired(now), "empty token")
	assert.False(t, Session{Token: "opaque-token"}.Expired(now), "opaque token")
	assert.False(t, Session{Token: signedToken(t, now.Add(time.Hour))}.Expired(now), "valid JWT")
	assert.True(t, Session{Token: signedToken(t, now.Add(-time.Minute))}.Expired(now), "expired JWT")

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	assert.False(t, Session{Token: noExp}.Expired(now), "JWT without exp")
}

func TestSession_Principal(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))

	tests := []struct {
		name    string
		session Session
		want    string
	}{
		{"anonymous", Session{}, ""},
		{"configured user", Session{Token: token, UserID: 7}, "7"},
		{"token subject", Session{Token: token}, "42"},
		{"opaque token", Session{Token: "opaque"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.session.Principal())
		})
	}
}
