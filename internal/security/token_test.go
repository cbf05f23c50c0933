package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filedrop/internal/models"
)

func TestSessionTokenRoundtrip(t *testing.T) {
	now := time.Now()
	claims := SessionClaims{
		UserID:        "u1",
		Role:          models.RoleAdmin,
		RevalidatedAt: now.UnixMilli(),
	}

	token, err := SignSessionToken("secret", claims, time.Hour, now)
	require.NoError(t, err)

	parsed, err := ParseSessionToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", parsed.UserID)
	assert.Equal(t, models.RoleAdmin, parsed.Role)
	assert.Equal(t, now.UnixMilli(), parsed.RevalidatedAt)
	assert.Equal(t, "u1", parsed.Subject)
}

func TestParseSessionTokenWrongSecret(t *testing.T) {
	token, err := SignSessionToken("secret", SessionClaims{UserID: "u1"}, time.Hour, time.Now())
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "other-secret")
	assert.Error(t, err)
}

func TestParseSessionTokenExpired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	token, err := SignSessionToken("secret", SessionClaims{UserID: "u1"}, time.Hour, issued)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseSessionTokenRejectsUnsignedAlg(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{UserID: "u1"})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseSessionToken(raw, "secret")
	assert.Error(t, err)
}

func TestAuthenticated(t *testing.T) {
	var nilClaims *SessionClaims
	assert.False(t, nilClaims.Authenticated())
	assert.False(t, (&SessionClaims{}).Authenticated())
	assert.True(t, (&SessionClaims{UserID: "u1"}).Authenticated())
}

func TestNewInviteToken(t *testing.T) {
	a, err := NewInviteToken()
	require.NoError(t, err)
	b, err := NewInviteToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43) // 32 bytes, unpadded base64
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
	assert.NotContains(t, a, "=")
}
