package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment at startup.
type Config struct {
	ListenAddr string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string
	LogLevel   string
}

// Load reads .env if present, then the process environment. Missing keys
// fall back to development defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ListenAddr: getenv("LISTEN_ADDR", ":8000"),
		DBUser:     getenv("DB_USER", "root"),
		DBPassword: getenv("DB_PASSWORD", ""),
		DBHost:     getenv("DB_HOST", "127.0.0.1"),
		DBPort:     getenv("DB_PORT", "3306"),
		DBName:     getenv("DB_NAME", "stacktogether"),
		JWTSecret:  getenv("JWT_SECRET", "supersecretkey"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
