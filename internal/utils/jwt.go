package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"
)

// ErrInvalidSession is returned for any token that fails to parse, is
// signed with another key or algorithm, has expired or lacks a subject.
var ErrInvalidSession = errors.New("invalid session token")

// SessionToken is a signed HS256 JWT identifying a logged-in user.  The
// Token field is what goes into the session cookie.  ID is the unique
// token id (jti) used for revocation on logout.
type SessionToken struct {
	Token string
	ID    string
	Exp   time.Time
}

// SessionClaims is the verified content of a session token.
type SessionClaims struct {
	UserID uint64
	ID     string
	Exp    time.Time
}

// NewSessionToken builds and signs a session token for userID that
// expires after ttl.  The subject claim carries the decimal user id.
func NewSessionToken(secret string, userID uint64, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	jti := uuid.NewString()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, ID: jti, Exp: exp}, nil
}

// ParseSessionToken verifies raw against secret and returns its claims.
// Only HMAC-signed tokens are accepted.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return SessionClaims{}, ErrInvalidSession
	}
	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uid == 0 {
		return SessionClaims{}, ErrInvalidSession
	}
	out := SessionClaims{UserID: uid, ID: claims.ID}
	if claims.ExpiresAt != nil {
		out.Exp = claims.ExpiresAt.Time
	}
	return out, nil
}
