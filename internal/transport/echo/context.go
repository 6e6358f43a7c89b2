package echo

import (
	"github.com/labstack/echo/v4"

	"portal-gateway/internal/access"
	"portal-gateway/internal/auth"
)

const (
	ContextKeySubject = "subject"
	ContextKeyEmail   = "email"
	ContextKeyRoles   = "roles"
)

// setSession stashes the verified session in the request context so handlers
// behind the gate never touch the raw claim.
func setSession(c echo.Context, claims *auth.Claims) {
	c.Set(ContextKeySubject, claims.Subject)
	c.Set(ContextKeyEmail, claims.Email)
	c.Set(ContextKeyRoles, claims.Roles())
}

// CurrentRoles returns the normalized role set for the request, empty when
// the gate has not run.
func CurrentRoles(c echo.Context) access.RoleSet {
	if roles, ok := c.Get(ContextKeyRoles).(access.RoleSet); ok {
		return roles
	}
	return access.RoleSet{}
}

// CurrentEmail returns the session email, empty when the gate has not run.
func CurrentEmail(c echo.Context) string {
	if email, ok := c.Get(ContextKeyEmail).(string); ok {
		return email
	}
	return ""
}
