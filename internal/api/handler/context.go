package handler

import "github.com/labstack/echo/v4"

// subject returns the token subject injected by the Auth middleware, for
// audit log entries. Empty when the route is unauthenticated.
func subject(c echo.Context) string {
	sub, _ := c.Get("subject").(string)
	return sub
}
