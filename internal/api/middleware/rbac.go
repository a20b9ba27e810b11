package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminOnly guards the admin API: only tokens carrying the identity_admin
// role claim get through. It must run after Auth.
func AdminOnly() echo.MiddlewareFunc {
	return RBAC(AdminRole)
}

// RBAC admits requests whose role claim, as set by Auth, is one of
// allowedRoles.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
