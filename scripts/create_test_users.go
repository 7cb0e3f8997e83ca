// scripts/create_test_users.go
package main

import (
	"fmt"
	"log"

	"github.com/Gan04bsc/ABD-Project/config"
	"github.com/Gan04bsc/ABD-Project/database"
	"github.com/Gan04bsc/ABD-Project/models"
)

// สร้างบัญชีทดสอบ student/teacher ถ้ายังไม่มี user ในระบบ
func main() {
	cfg := config.Load()
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		log.Fatalf("failed to count users: %v", err)
	}
	if count > 0 {
		fmt.Printf("database already has %d user(s), skipping seed\n", count)
		return
	}

	seed := func(email, name string, role models.Role) {
		u := models.User{Email: email, Name: name, Role: role}
		if err := u.SetPassword("123456"); err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		if err := db.Create(&u).Error; err != nil {
			log.Fatalf("failed to insert %s: %v", email, err)
		}
		fmt.Printf("created %s account: %s / 123456\n", role, email)
	}

	seed("student@test.com", "Student Test", models.RoleStudent)
	seed("teacher@test.com", "Teacher Test", models.RoleTeacher)
}
