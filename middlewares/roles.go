package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole("teacher") → ผ่านถ้า role ของผู้ใช้ตรงอย่างน้อย 1 ค่า
// ต้องวางหลัง RequireAuth เสมอ (อ่าน role จาก context)
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[strings.ToLower(role)]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
			}
			return next(c)
		}
	}
}
