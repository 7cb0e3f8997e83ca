package routes

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Gan04bsc/ABD-Project/config"
	"github.com/Gan04bsc/ABD-Project/handlers"
	"github.com/Gan04bsc/ABD-Project/mailer"
	"github.com/Gan04bsc/ABD-Project/middlewares"
	"github.com/Gan04bsc/ABD-Project/storage"
)

// Register wires all HTTP routes.
// db/cfg/stores ส่งเข้า handler ตรง ๆ — ไม่มี global state
func Register(e *echo.Echo, db *gorm.DB, cfg *config.Config, docs, images *storage.Store) {
	auth := handlers.NewAuthHandler(db, cfg)
	users := handlers.NewUserHandler(db)
	doc := handlers.NewDocumentHandler(db, docs)
	appt := handlers.NewAppointmentHandler(db, mailer.NewLogMailer())
	news := handlers.NewNewsHandler(db, images)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)
	refreshMW := middlewares.RequireRefresh(cfg.JWTSecret)

	e.GET("/health", handlers.Health)

	// ===== Auth =====
	a := e.Group("/api/auth")
	a.POST("/register", auth.Register)
	a.POST("/login", auth.Login)
	a.POST("/refresh", auth.Refresh, refreshMW)
	a.GET("/me", auth.Me, authMW)

	// ===== Users =====
	u := e.Group("/api/users", authMW)
	u.GET("/me", users.Me)
	u.GET("/profile", users.GetProfile)
	u.PUT("/profile", users.UpdateProfile)
	u.GET("/students", users.ListStudents) // เฉพาะครู (เช็คใน handler)

	// ===== Documents =====
	d := e.Group("/api/documents", authMW)
	d.GET("", doc.List)
	d.POST("", doc.Upload)
	d.GET("/:id", doc.Get)
	d.GET("/:id/view", doc.View)
	d.GET("/:id/download", doc.Download)
	d.PUT("/:id", doc.Update)
	d.DELETE("/:id", doc.Delete)
	// ครูดูเอกสารนักเรียน (re-check role + เจ้าของต้องเป็นนักเรียน)
	d.GET("/students/:id", doc.ListForStudent)
	d.GET("/:id/teacher-view", doc.TeacherView)
	d.GET("/:id/teacher-download", doc.TeacherDownload)

	// ===== Appointments =====
	ap := e.Group("/api/appointments", authMW)
	ap.GET("/slots", appt.BookedSlots)
	ap.POST("", appt.Book)
	ap.GET("", appt.List)
	ap.PUT("/:id/status", appt.UpdateStatus)

	// ===== News (อ่านสาธารณะ เขียนเฉพาะครู) =====
	e.GET("/api/news", news.List)
	e.GET("/api/news/images/:filename", news.ServeImage)
	e.GET("/api/news/:id", news.Get)

	n := e.Group("/api/news", authMW)
	n.POST("", news.Create)
	n.PUT("/:id", news.Update)
	n.PATCH("/:id", news.Update)
	n.DELETE("/:id", news.Delete)
	n.POST("/images", news.UploadImage)
}
