package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Gan04bsc/ABD-Project/mailer"
	"github.com/Gan04bsc/ABD-Project/models"
)

type AppointmentHandler struct {
	DB   *gorm.DB
	Mail mailer.Mailer
}

func NewAppointmentHandler(db *gorm.DB, mail mailer.Mailer) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Mail: mail}
}

var errSlotTaken = errors.New("slot already booked")

/* ====================== DTOs ====================== */

type bookReq struct {
	TeacherID uint   `json:"teacher_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	TimeSlot  string `json:"time_slot" validate:"required"`
	Type      string `json:"type" validate:"required"`
	Reason    string `json:"reason"`
}

// แนบข้อมูลคู่สนทนาไปกับนัด (FE ใช้แสดงชื่อ ไม่ต้องยิงเพิ่ม)
func (h *AppointmentHandler) appointmentJSON(a *models.Appointment) map[string]any {
	out := map[string]any{
		"id":               a.ID,
		"student_id":       a.StudentID,
		"teacher_id":       a.TeacherID,
		"appointment_date": a.AppointmentDate,
		"time_slot":        a.TimeSlot,
		"appointment_type": a.AppointmentType,
		"reason":           a.Reason,
		"status":           a.Status,
		"created_at":       a.CreatedAt,
		"updated_at":       a.UpdatedAt,
		"student":          nil,
		"teacher":          nil,
	}
	var stu models.User
	if err := h.DB.First(&stu, a.StudentID).Error; err == nil {
		out["student"] = map[string]any{
			"name":       stu.Name,
			"email":      stu.Email,
			"student_id": stu.StudentID,
			"grade":      stu.Grade,
			"class_name": stu.ClassName,
		}
	}
	var tch models.User
	if err := h.DB.First(&tch, a.TeacherID).Error; err == nil {
		out["teacher"] = map[string]any{
			"name":  tch.Name,
			"email": tch.Email,
		}
	}
	return out
}

/* ====================== Handlers ====================== */

// GET /api/appointments/slots?teacher_id=&date=
// คืน label ของช่องเวลาที่ยังถูกจองอยู่ (pending/approved) ให้ FE ปิดช่อง
func (h *AppointmentHandler) BookedSlots(c echo.Context) error {
	teacherID := parseUint(c.QueryParam("teacher_id"))
	date := strings.TrimSpace(c.QueryParam("date"))
	if teacherID == 0 || date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}
	slots := []string{}
	if err := h.DB.Model(&models.Appointment{}).
		Where("teacher_id = ? AND appointment_date = ? AND status IN ?", teacherID, date, models.BlockingStatuses).
		Pluck("time_slot", &slots).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"booked_slots": slots})
}

// POST /api/appointments — นักเรียนจองนัดกับครู เริ่มที่สถานะ pending
func (h *AppointmentHandler) Book(c echo.Context) error {
	ident, err := requireRole(c, models.RoleStudent)
	if err != nil {
		return err
	}

	var req bookReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	req.Date = strings.TrimSpace(req.Date)
	req.TimeSlot = strings.TrimSpace(req.TimeSlot)
	req.Type = strings.TrimSpace(req.Type)
	if err := validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_DATE"})
	}

	// ปลายทางต้องเป็นครูจริง
	var teacher models.User
	if err := h.DB.First(&teacher, req.TeacherID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "TEACHER_NOT_FOUND"})
	}
	if teacher.Role != models.RoleTeacher {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "NOT_A_TEACHER"})
	}

	appt := models.Appointment{
		StudentID:       ident.ID,
		TeacherID:       req.TeacherID,
		AppointmentDate: req.Date,
		TimeSlot:        req.TimeSlot,
		AppointmentType: req.Type,
		Reason:          strings.TrimSpace(req.Reason),
		Status:          models.StatusPending,
	}

	// เช็ค + insert ใน transaction เดียว และมี partial unique index
	// (teacher_id, appointment_date, time_slot WHERE pending/approved) กันชั้นสุดท้าย
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Appointment{}).
			Where("teacher_id = ? AND appointment_date = ? AND time_slot = ? AND status IN ?",
				appt.TeacherID, appt.AppointmentDate, appt.TimeSlot, models.BlockingStatuses).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return errSlotTaken
		}
		return tx.Create(&appt).Error
	})
	if err != nil {
		if errors.Is(err, errSlotTaken) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "SLOT_ALREADY_BOOKED"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_CREATE_FAILED"})
	}

	return c.JSON(http.StatusCreated, h.appointmentJSON(&appt))
}

// GET /api/appointments?status=
// นักเรียนเห็นนัดที่ตัวเองเป็นฝ่ายจอง ครูเห็นนัดที่ตัวเองถูกจอง
func (h *AppointmentHandler) List(c echo.Context) error {
	ident, err := identityFrom(c)
	if err != nil {
		return err
	}

	tx := h.DB.Model(&models.Appointment{})
	if ident.Role == models.RoleTeacher {
		tx = tx.Where("teacher_id = ?", ident.ID)
	} else {
		tx = tx.Where("student_id = ?", ident.ID)
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		if !models.AppointmentStatus(status).Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_STATUS"})
		}
		tx = tx.Where("status = ?", status)
	}

	var rows []models.Appointment
	if err := tx.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	out := make([]map[string]any, 0, len(rows))
	for i := range rows {
		out = append(out, h.appointmentJSON(&rows[i]))
	}
	return c.JSON(http.StatusOK, out)
}

type statusReq struct {
	Status string `json:"status" validate:"required"`
}

// PUT /api/appointments/:id/status
// นักเรียน (ที่ไม่ใช่ครูเจ้าของนัด) ยกเลิกได้อย่างเดียว ครูตั้งสถานะใดก็ได้ในชุดที่กำหนด
func (h *AppointmentHandler) UpdateStatus(c echo.Context) error {
	ident, err := identityFrom(c)
	if err != nil {
		return err
	}

	var appt models.Appointment
	if err := h.DB.First(&appt, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}

	var req statusReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	newStatus := models.AppointmentStatus(strings.TrimSpace(req.Status))
	if !newStatus.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_STATUS"})
	}

	isStudentParty := ident.ID == appt.StudentID
	isTeacherParty := ident.ID == appt.TeacherID
	if !isStudentParty && !isTeacherParty {
		return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	}
	// ฝั่งนักเรียนทำได้อย่างเดียวคือยกเลิกนัดของตัวเอง
	if isStudentParty && !isTeacherParty && newStatus != models.StatusCancelled {
		return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "STUDENT_CANCEL_ONLY"})
	}

	if err := h.DB.Model(&appt).Update("status", newStatus).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_UPDATE_FAILED"})
	}
	appt.Status = newStatus

	// แจ้งนักเรียนเมื่อครูตัดสินนัด (stub — ลง log)
	if isTeacherParty && (newStatus == models.StatusApproved || newStatus == models.StatusRejected) {
		var stu models.User
		if err := h.DB.First(&stu, appt.StudentID).Error; err == nil {
			subject := fmt.Sprintf("Your appointment on %s %s was %s", appt.AppointmentDate, appt.TimeSlot, newStatus)
			_ = h.Mail.Send(stu.Email, subject, appt.Reason)
		}
	}

	return c.JSON(http.StatusOK, h.appointmentJSON(&appt))
}
