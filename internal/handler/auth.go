package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticketing/internal/config"
	"github.com/iliyamo/movie-ticketing/internal/middleware"
	"github.com/iliyamo/movie-ticketing/internal/model"
	"github.com/iliyamo/movie-ticketing/internal/repository"
	"github.com/iliyamo/movie-ticketing/internal/serializer"
	"github.com/iliyamo/movie-ticketing/internal/utils"
)

// AuthHandler bundles dependencies for the session endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Log    hclog.Logger
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, log hclog.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Log: log}
}

// ----- DTOs -----

type signupReq struct {
	Username *string `json:"username" validate:"required"`
	Email    *string `json:"email" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup: POST /signup.  Creates the user without logging them in.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := bindJSON(c, &req); err != nil {
		return invalidBody(c)
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": missingFields(err)})
	}
	u, err := model.NewUser(*req.Username, *req.Email, *req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return failed(c, "Failed to create user.", err)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Users.Create(ctx, u); err != nil {
		if !errors.Is(err, repository.ErrConflict) {
			h.Log.Warn("signup failed", "error", err)
		}
		return failed(c, "Failed to create user.", err)
	}
	return c.JSON(http.StatusCreated, serializer.User(u))
}

// Login: POST /login.  Every failure is the same empty 401 so callers
// cannot tell a missing user from a wrong password.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindJSON(c, &req); err != nil || req.Username == "" || req.Password == "" {
		return c.NoContent(http.StatusUnauthorized)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			h.Log.Error("login lookup failed", "error", err)
		}
		utils.BurnPasswordCheck(req.Password)
		return c.NoContent(http.StatusUnauthorized)
	}
	if !u.Authenticate(req.Password) {
		return c.NoContent(http.StatusUnauthorized)
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, h.Cfg.SessionTTL)
	if err != nil {
		h.Log.Error("issue session failed", "user_id", u.ID, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	c.SetCookie(h.sessionCookie(tok.Token, tok.Exp))
	return c.JSON(http.StatusOK, serializer.User(u))
}

// Logout: DELETE /logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.endSession(c)
	return c.NoContent(http.StatusNoContent)
}

// Clear: DELETE /clear.  Same effect as Logout; kept as its own route for
// clients that reset state on load.
func (h *AuthHandler) Clear(c echo.Context) error {
	h.endSession(c)
	return c.NoContent(http.StatusNoContent)
}

// CheckSession: GET /check_session.
func (h *AuthHandler) CheckSession(c echo.Context) error {
	uid, ok := middleware.SessionUserID(c)
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			h.Log.Error("check session lookup failed", "user_id", uid, "error", err)
		}
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, serializer.User(u))
}

// endSession revokes the current token, if any, and expires the cookie.
func (h *AuthHandler) endSession(c echo.Context) {
	if jti, exp, ok := middleware.SessionToken(c); ok {
		if err := h.Tokens.Revoke(c.Request().Context(), jti, exp); err != nil {
			h.Log.Warn("revoke session failed", "error", err)
		}
	}
	c.SetCookie(h.sessionCookie("", time.Unix(0, 0)))
}

func (h *AuthHandler) sessionCookie(value string, exp time.Time) *http.Cookie {
	ck := &http.Cookie{
		Name:     h.Cfg.SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		ck.MaxAge = -1
	}
	return ck
}
