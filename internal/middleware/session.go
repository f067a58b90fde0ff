package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticketing/internal/utils"
)

// Context keys set by Session.
const (
	CtxUserID     = "user_id"     // uint64 id of the authenticated user
	CtxSessionID  = "session_jti" // token id, needed to revoke on logout
	CtxSessionExp = "session_exp" // token expiry (time.Time)
)

// Revocations is consulted for every session token that verifies.
type Revocations interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// SessionConfig configures Session.
type SessionConfig struct {
	Secret     string
	CookieName string
	Revoked    Revocations
	Log        hclog.Logger
}

// Session resolves the session cookie into a request-scoped identity.
// It never rejects a request: a missing, tampered, expired or revoked
// token simply leaves the context anonymous and handlers decide what that
// means.  A Redis failure during the revocation check fails closed.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			claims, err := utils.ParseSessionToken(cfg.Secret, cookie.Value)
			if err != nil {
				return next(c)
			}
			if cfg.Revoked != nil {
				revoked, err := cfg.Revoked.IsRevoked(c.Request().Context(), claims.ID)
				if err != nil && cfg.Log != nil {
					cfg.Log.Warn("session revocation check failed", "error", err)
				}
				if err != nil || revoked {
					return next(c)
				}
			}
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxSessionID, claims.ID)
			c.Set(CtxSessionExp, claims.Exp)
			return next(c)
		}
	}
}

// SessionUserID returns the authenticated user id, if any.
func SessionUserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(CtxUserID).(uint64)
	return id, ok && id != 0
}

// SessionToken returns the id and expiry of the current session token.
func SessionToken(c echo.Context) (string, time.Time, bool) {
	jti, ok := c.Get(CtxSessionID).(string)
	if !ok || jti == "" {
		return "", time.Time{}, false
	}
	exp, _ := c.Get(CtxSessionExp).(time.Time)
	return jti, exp, true
}
