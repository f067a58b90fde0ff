package middleware

// identity.go defines helpers shared across middleware files.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userID returns the session user id as a string for use in keys, or
// "guest" when the request is anonymous.
func userID(c echo.Context) string {
	if id, ok := SessionUserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "guest"
}
