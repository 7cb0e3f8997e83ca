package models

import "time"

type News struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"size:255;not null"`
	Summary    string    `json:"summary" gorm:"type:text;not null;default:''"` // ถ้าไม่ได้ใส่มาจะ derive จาก content
	CoverImage *string   `json:"cover_image" gorm:"size:1024"`
	Content    string    `json:"content" gorm:"type:text;not null"` // HTML ผ่าน sanitize แล้ว
	CreatedBy  uint      `json:"created_by" gorm:"index;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (News) TableName() string { return "news" }
