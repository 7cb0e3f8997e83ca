package main

import (
	"log"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Gan04bsc/ABD-Project/config"
	"github.com/Gan04bsc/ABD-Project/database"
	"github.com/Gan04bsc/ABD-Project/routes"
	"github.com/Gan04bsc/ABD-Project/storage"
)

func main() {
	cfg := config.Load()

	// เชื่อมต่อฐานข้อมูล (ถ้า DB ยังไม่ขึ้น โปรแกรมจะ error ทันที — เหมาะสำหรับ early fail)
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	docs, err := storage.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to init upload dir: %v", err)
	}
	images, err := storage.NewStore(filepath.Join(cfg.UploadDir, "news"))
	if err != nil {
		log.Fatalf("failed to init news image dir: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, db, cfg, docs, images)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
