package models

import "time"

type Document struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	Name         string    `json:"name" gorm:"size:255;not null"`          // ชื่อที่แสดง (แก้ไขได้)
	OriginalName string    `json:"original_name" gorm:"size:255;not null"` // ชื่อไฟล์ตอนอัปโหลด
	FilePath     string    `json:"-" gorm:"size:1024;not null"`            // path จริงบนดิสก์ — ไม่ส่งออก
	FileSize     int64     `json:"file_size" gorm:"not null;default:0"`    // bytes
	FileType     string    `json:"file_type" gorm:"size:32;not null"`      // extension
	Category     string    `json:"category" gorm:"size:64;not null;default:general"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
