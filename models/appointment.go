package models

import "time"

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusRejected  AppointmentStatus = "rejected"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Blocking = สถานะที่ยังกันช่องเวลาอยู่ (จองซ้ำไม่ได้)
func (s AppointmentStatus) Blocking() bool {
	return s == StatusPending || s == StatusApproved
}

// BlockingStatuses ใช้ใน query และใน partial unique index (ดู database.Connect)
var BlockingStatuses = []AppointmentStatus{StatusPending, StatusApproved}

type Appointment struct {
	ID              uint              `json:"id" gorm:"primaryKey"`
	StudentID       uint              `json:"student_id" gorm:"index;not null"`
	TeacherID       uint              `json:"teacher_id" gorm:"index;not null"`
	AppointmentDate string            `json:"appointment_date" gorm:"size:10;not null"` // YYYY-MM-DD
	TimeSlot        string            `json:"time_slot" gorm:"size:32;not null"`        // เช่น "09:00-10:00" — label เฉย ๆ ไม่ใช่ interval
	AppointmentType string            `json:"appointment_type" gorm:"size:64;not null"`
	Reason          string            `json:"reason" gorm:"type:text"`
	Status          AppointmentStatus `json:"status" gorm:"size:32;not null;default:pending"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
