package jwthelper

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("test-signing-key")

func TestGenerateAndParse(t *testing.T) {
	token, err := GenerateToken(testKey, 42, "firefox", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testKey, token, "firefox")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParseToken_Rejects(t *testing.T) {
	valid, err := GenerateToken(testKey, 42, "firefox", time.Hour)
	require.NoError(t, err)

	expired, err := GenerateToken(testKey, 42, "firefox", -time.Minute)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, UserClaims{UserID: 42, UserAgent: "firefox"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name      string
		key       []byte
		token     string
		userAgent string
		wantErr   error
	}{
		{"wrong key", []byte("other"), valid, "firefox", ErrInvalidToken},
		{"expired", testKey, expired, "firefox", ErrInvalidToken},
		{"garbage", testKey, "not.a.token", "firefox", ErrInvalidToken},
		{"unsigned", testKey, none, "firefox", ErrInvalidToken},
		{"other user agent", testKey, valid, "curl", ErrUserAgentMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseToken(tc.key, tc.token, tc.userAgent)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
