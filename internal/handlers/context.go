package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/lienquan/karahub/backend/internal/models"
)

// getUserIDFromContext extracts the authenticated user's ID set by the auth
// middleware. Returns "" when the request is unauthenticated.
func getUserIDFromContext(c echo.Context) string {
	if claims, ok := c.Get("user").(*models.JwtCustomClaims); ok {
		return claims.UserID
	}
	if uid, ok := c.Get("firebaseUID").(string); ok {
		return uid
	}
	return ""
}

// getUserRoleFromContext extracts the authenticated user's role, if any.
func getUserRoleFromContext(c echo.Context) string {
	if claims, ok := c.Get("user").(*models.JwtCustomClaims); ok {
		return claims.Role
	}
	if role, ok := c.Get("userRole").(string); ok {
		return role
	}
	return ""
}
