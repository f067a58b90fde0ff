package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("secret", 42, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok.ID)

	claims, err := ParseSessionToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, tok.ID, claims.ID)
	assert.WithinDuration(t, tok.Exp, claims.Exp, time.Second)
}

func TestSessionTokenRejects(t *testing.T) {
	tok, err := NewSessionToken("secret", 1, time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken("other", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = ParseSessionToken("secret", tok.Token+"x")
	assert.ErrorIs(t, err, ErrInvalidSession)

	expired, err := NewSessionToken("secret", 1, -time.Minute)
	require.NoError(t, err)
	_, err = ParseSessionToken("secret", expired.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "1"})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseSessionToken("secret", raw)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("pässword", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "pässword"))
	assert.False(t, VerifyPassword(hash, "password"))
	assert.False(t, VerifyPassword("", "pässword"))

	assert.NotPanics(t, func() { BurnPasswordCheck("anything") })
}
