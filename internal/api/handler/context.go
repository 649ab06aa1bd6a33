package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vanchuyen/logistics-api/internal/api/middleware"
	"github.com/vanchuyen/logistics-api/internal/core/domain"
)

// identity extracts the caller injected by the Auth middleware. A missing user
// id means the middleware did not run; reject with 401 before any service call.
func identity(c echo.Context) (domain.Identity, error) {
	userID, _ := c.Get(middleware.CtxUserID).(string)
	if userID == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	email, _ := c.Get(middleware.CtxEmail).(string)
	isAdmin, _ := c.Get(middleware.CtxIsAdmin).(bool)
	return domain.Identity{UserID: userID, Email: email, IsAdmin: isAdmin}, nil
}

// bindAndValidate decodes the request into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
