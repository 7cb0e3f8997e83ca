package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Gan04bsc/ABD-Project/config"
	"github.com/Gan04bsc/ABD-Project/models"
)

// Connect เปิด connection + migrate โครงสร้างทั้งหมด
// คืน *gorm.DB ให้ caller ส่งต่อเอง (ไม่มี global)
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		// แปลง error จาก driver เป็น gorm.ErrDuplicatedKey ฯลฯ
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate แยกออกมาให้ tests เรียกกับ sqlite ได้
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Document{},
		&models.Appointment{},
		&models.News{},
	); err != nil {
		return err
	}

	// กันจองซ้ำที่ชั้น storage: unique เฉพาะแถวที่ยัง block ช่องเวลาอยู่
	// (pending/approved) — แถว terminal ไม่นับ จองซ้ำได้
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_appointments_active_slot
		 ON appointments (teacher_id, appointment_date, time_slot)
		 WHERE status IN ('pending', 'approved')`,
	).Error
}
