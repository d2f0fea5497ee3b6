package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/auracommerce/storefront/internal/auth"
)

const UserIDKey = "userID"

type Session struct {
	Auth *auth.Service
}

// WithSession resolves the Bearer session token to an account id when one is
// presented. The token must match the persisted current session, not merely
// carry a valid signature, so tokens stop working the moment the session is
// cleared or rotated. Anonymous requests pass through untouched.
func (m *Session) WithSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		const prefix = "Bearer "
		if len(header) > len(prefix) && header[:len(prefix)] == prefix {
			if sub, err := m.Auth.VerifySession(c.Request().Context(), header[len(prefix):]); err == nil {
				c.Set(UserIDKey, sub)
			}
		}
		return next(c)
	}
}

// RequireSession rejects requests that did not resolve to an account.
func (m *Session) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return m.WithSession(func(c echo.Context) error {
		if UserID(c) == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		return next(c)
	})
}

func UserID(c echo.Context) string {
	if v, ok := c.Get(UserIDKey).(string); ok {
		return v
	}
	return ""
}
