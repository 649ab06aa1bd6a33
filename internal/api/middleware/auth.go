package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by Auth.
const (
	CtxUserID  = "user_id"
	CtxEmail   = "email"
	CtxIsAdmin = "is_admin"
)

// accessClaims is the token payload issued by the account service.
type accessClaims struct {
	UserID  string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// userID prefers the "id" claim and falls back to "sub".
func (c *accessClaims) userID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// Auth accepts "Bearer <HS256 token>" and stores the caller identity in the
// echo context under CtxUserID, CtxEmail and CtxIsAdmin.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	key := func(*jwt.Token) (any, error) { return []byte(jwtSecret), nil }

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			scheme, raw, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			var claims accessClaims
			if _, err := parser.ParseWithClaims(raw, &claims, key); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			id := claims.userID()
			if id == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing user identity")
			}

			c.Set(CtxUserID, id)
			c.Set(CtxEmail, claims.Email)
			c.Set(CtxIsAdmin, claims.IsAdmin)
			return next(c)
		}
	}
}

// AdminOnly must run after Auth; it answers 403 unless is_admin was true.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if admin, _ := c.Get(CtxIsAdmin).(bool); !admin {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
			}
			return next(c)
		}
	}
}
