package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string
	AppEnv  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// โฟลเดอร์เก็บไฟล์อัปโหลดปัจจุบัน (เอกสาร + รูปข่าว)
	UploadDir string
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func Load() *Config {
	// .env ไม่มีก็ไม่เป็นไร — ใช้ env จริง/ค่า default
	_ = godotenv.Load()

	return &Config{
		AppPort: get("APP_PORT", "8080"),
		AppEnv:  get("APP_ENV", "dev"),

		DBHost:     get("DB_HOST", "localhost"),
		DBPort:     get("DB_PORT", "5432"),
		DBUser:     get("DB_USER", "postgres"),
		DBPassword: get("DB_PASSWORD", "postgres"),
		DBName:     get("DB_NAME", "advising"),
		DBSSLMode:  get("DB_SSLMODE", "disable"),

		JWTSecret:  get("JWT_SECRET", "dev-secret"),
		AccessTTL:  getDuration("JWT_ACCESS_TTL", 2*time.Hour),
		RefreshTTL: getDuration("JWT_REFRESH_TTL", 7*24*time.Hour),

		UploadDir: get("UPLOAD_DIR", "uploads"),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}
