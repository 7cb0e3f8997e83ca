package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Gan04bsc/ABD-Project/models"
)

// Identity = ตัวตนจาก JWT ที่ middleware แนบไว้ใน context
type Identity struct {
	ID   uint
	Role models.Role
	Name string
}

func identityFrom(c echo.Context) (*Identity, error) {
	id, ok := c.Get("user_id").(uint)
	if !ok || id == 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "UNAUTHENTICATED"})
	}
	role, _ := c.Get("role").(string)
	name, _ := c.Get("name").(string)
	return &Identity{ID: id, Role: models.Role(role), Name: name}, nil
}

// requireRole เป็น gate เดียวสำหรับทุก endpoint ที่จำกัดบทบาท
// แทนการเช็ค string role กระจายตาม handler
func requireRole(c echo.Context, roles ...models.Role) (*Identity, error) {
	ident, err := identityFrom(c)
	if err != nil {
		return nil, err
	}
	for _, r := range roles {
		if ident.Role == r {
			return ident, nil
		}
	}
	return nil, echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
}
