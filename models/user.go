package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role เป็น closed set — ไม่รับค่าอื่นนอกจากนี้
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // เก็บ bcrypt hash
	Name         string    `json:"name" gorm:"size:128;not null"`
	Role         Role      `json:"role" gorm:"size:32;not null;default:student"` // "student" | "teacher"
	StudentID    string    `json:"student_id" gorm:"size:32"`                    // ฟิลด์เฉพาะนักเรียน
	Grade        string    `json:"grade" gorm:"size:16"`
	ClassName    string    `json:"class_name" gorm:"size:32"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}
