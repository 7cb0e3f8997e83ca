package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Gan04bsc/ABD-Project/config"
	"github.com/Gan04bsc/ABD-Project/models"
)

type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg}
}

func (h *AuthHandler) signToken(u *models.User, typ string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": string(u.Role),
		"name": u.Name,
		"typ":  typ,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.Cfg.JWTSecret))
}

// user_info ก้อนเดียวกันทั้ง login/refresh — ฟิลด์คงที่ให้ FE/ฟิกซ์เจอร์เทสต์อ้างอิง
func userInfo(u *models.User) map[string]any {
	return map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"role":       u.Role,
		"student_id": u.StudentID,
		"grade":      u.Grade,
		"class_name": u.ClassName,
	}
}

/* ====================== DTOs ====================== */

type registerReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

/* ====================== Handlers ====================== */

// POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		// ไม่ส่งชื่อมา ใช้ส่วนหน้า @ ของอีเมล
		name = strings.SplitN(req.Email, "@", 2)[0]
		if name == "" {
			name = "User"
		}
	}
	role := models.Role(strings.TrimSpace(req.Role))
	if role == "" {
		role = models.RoleStudent
	}
	if !role.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ROLE"})
	}

	// ตรวจซ้ำ email ก่อน — uniqueIndex เป็นตัวกันชั้นสุดท้าย
	var dup models.User
	if err := h.DB.Where("email = ?", req.Email).First(&dup).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "EMAIL_EXISTS"})
	}

	u := models.User{Email: req.Email, Name: name, Role: role}
	if err := u.SetPassword(req.Password); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "HASH_FAILED"})
	}
	if err := h.DB.Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "EMAIL_EXISTS"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_CREATE_FAILED"})
	}
	return c.JSON(http.StatusCreated, map[string]any{"message": "registered", "id": u.ID})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	var u models.User
	if err := h.DB.Where("email = ?", req.Email).First(&u).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}
	if !u.CheckPassword(req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}

	access, err := h.signToken(&u, "access", h.Cfg.AccessTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "TOKEN_GEN_FAILED"})
	}
	refresh, err := h.signToken(&u, "refresh", h.Cfg.RefreshTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "TOKEN_GEN_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
		"role":          u.Role,
		"user_info":     userInfo(&u),
	})
}

// POST /api/auth/refresh — ต้องส่ง refresh token (ดู middlewares.RequireRefresh)
func (h *AuthHandler) Refresh(c echo.Context) error {
	ident, err := identityFrom(c)
	if err != nil {
		return err
	}
	// โหลด user ใหม่ — กัน token ของ user ที่ถูกลบไปแล้ว
	var u models.User
	if err := h.DB.First(&u, ident.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "USER_NOT_FOUND"})
	}
	access, err := h.signToken(&u, "access", h.Cfg.AccessTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "TOKEN_GEN_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"access_token": access,
		"role":         u.Role,
		"user_info":    userInfo(&u),
	})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	ident, err := identityFrom(c)
	if err != nil {
		return err
	}
	var u models.User
	if err := h.DB.First(&u, ident.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "USER_NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
		"role":  u.Role,
	})
}
