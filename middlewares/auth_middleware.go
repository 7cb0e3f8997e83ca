package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Claims ตามที่เซ็นใน handlers/auth_handler.go
type Claims struct {
	Sub  uint   `json:"sub"`
	Role string `json:"role"`
	Name string `json:"name"`
	Typ  string `json:"typ"` // "access" | "refresh"
	jwt.RegisteredClaims
}

// ดึง token จาก Authorization header
func extractBearer(c echo.Context) (string, error) {
	h := c.Request().Header.Get("Authorization")
	if h == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "MISSING_AUTH_HEADER"})
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_AUTH_HEADER"})
	}
	return parts[1], nil
}

func parseClaims(c echo.Context, secret string) (*Claims, error) {
	tok, err := extractBearer(c)
	if err != nil {
		return nil, err
	}
	token, err := jwt.ParseWithClaims(tok, &Claims{}, func(t *jwt.Token) (any, error) {
		// ป้องกัน alg โดนสลับ
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_TOKEN_METHOD"})
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_TOKEN"})
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	// ตรวจ expiry ซ้ำ (กัน lib ถูก config ปิด)
	if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "TOKEN_EXPIRED"})
	}
	return claims, nil
}

// RequireAuth ตรวจ access token (HS256) และแนบ identity ไว้ใน context
func RequireAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseClaims(c, secret)
			if err != nil {
				return err
			}
			if claims.Typ != "" && claims.Typ != "access" {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_TOKEN_TYPE"})
			}
			c.Set("user_id", claims.Sub)
			c.Set("role", claims.Role)
			c.Set("name", claims.Name)
			return next(c)
		}
	}
}

// RequireRefresh ใช้เฉพาะ endpoint /refresh — รับเฉพาะ refresh token
func RequireRefresh(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseClaims(c, secret)
			if err != nil {
				return err
			}
			if claims.Typ != "refresh" {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "REFRESH_TOKEN_REQUIRED"})
			}
			c.Set("user_id", claims.Sub)
			c.Set("role", claims.Role)
			c.Set("name", claims.Name)
			return next(c)
		}
	}
}
