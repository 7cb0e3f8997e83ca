package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Gan04bsc/ABD-Project/models"
)

type UserHandler struct {
	DB *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler { return &UserHandler{DB: db} }

// GET /api/users/me
func (h *UserHandler) Me(c echo.Context) error {
	ident, err := identityFrom(c)
	if err != nil {
		return err
	}
	var u models.User
	if err := h.DB.First(&u, ident.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "USER_NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"role":       u.Role,
		"student_id": u.StudentID,
		"grade":      u.Grade,
		"class_name": u.ClassName,
	})
}

// GET /api/users/profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	ident, err := identityFrom(c)
	if err != nil {
		return err
	}
	var u models.User
	if err := h.DB.First(&u, ident.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "USER_NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"name":       u.Name,
		"student_id": u.StudentID,
		"grade":      u.Grade,
		"class_name": u.ClassName,
	})
}

type profileReq struct {
	// pointer = ไม่ส่งฟิลด์มาก็ไม่แตะค่าเดิม (partial update)
	Name      *string `json:"name"`
	StudentID *string `json:"student_id"`
	Grade     *string `json:"grade"`
	ClassName *string `json:"class_name"`
}

// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	ident, err := identityFrom(c)
	if err != nil {
		return err
	}
	var u models.User
	if err := h.DB.First(&u, ident.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "USER_NOT_FOUND"})
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if req.Name != nil {
		if v := strings.TrimSpace(*req.Name); v != "" {
			u.Name = v
		}
	}
	if req.StudentID != nil {
		u.StudentID = strings.TrimSpace(*req.StudentID)
	}
	if req.Grade != nil {
		u.Grade = strings.TrimSpace(*req.Grade)
	}
	if req.ClassName != nil {
		u.ClassName = strings.TrimSpace(*req.ClassName)
	}
	if err := h.DB.Save(&u).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_UPDATE_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "saved",
		"profile": map[string]any{
			"name":       u.Name,
			"student_id": u.StudentID,
			"grade":      u.Grade,
			"class_name": u.ClassName,
		},
	})
}

// GET /api/users/students — เฉพาะครู ใช้ในหน้าให้คำปรึกษา
func (h *UserHandler) ListStudents(c echo.Context) error {
	if _, err := requireRole(c, models.RoleTeacher); err != nil {
		return err
	}
	var students []models.User
	if err := h.DB.Where("role = ?", models.RoleStudent).Order("id").Find(&students).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	out := make([]map[string]any, 0, len(students))
	for _, s := range students {
		out = append(out, map[string]any{
			"id":         s.ID,
			"email":      s.Email,
			"name":       s.Name,
			"student_id": s.StudentID,
			"grade":      s.Grade,
			"class_name": s.ClassName,
		})
	}
	return c.JSON(http.StatusOK, out)
}
