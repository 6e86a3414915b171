package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stockmanager/inventory-system/internal/core/domain"
)

// RBAC enforces role-based access control. The roles claim is the
// comma-delimited string set by Auth; any overlap with allowedRoles passes.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, _ := c.Get("roles").(string)
			granted := domain.ParseRoles(raw)
			for _, allowed := range allowedRoles {
				if granted.Has(allowed) {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
