package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/startupsetu/setu/internal/auth"
)

// RequireSelf checks that the bearer token belongs to userID.
func RequireSelf(c echo.Context, userID string) error {
	tokenUserID, err := auth.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if tokenUserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return nil
}
