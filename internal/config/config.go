package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// BaseURL is the public root of this install; every generated course,
	// module and pluginfile URL is prefixed with it.
	BaseURL string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Storage
	StoragePath string
	StaticDir   string

	// Licensing
	LicenseEndpoint string
	LicenseProduct  string

	// Survey gate: hours after first boot before the admin survey is offered.
	SurveyDelayHours int

	// Workers consuming the view-event queue.
	ViewWorkers int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		Env:              getEnvOrDefault("ENV", "development"),
		BaseURL:          getEnvOrDefault("BASE_URL", "http://localhost:8080"),
		DatabaseURL:      mustGetEnv("DATABASE_URL"),
		RedisURL:         mustGetEnv("REDIS_URL"),
		JWTSecret:        mustGetEnv("JWT_SECRET"),
		StoragePath:      getEnvOrDefault("STORAGE_PATH", "./filedir"),
		StaticDir:        getEnvOrDefault("STATIC_DIR", "./web/static"),
		LicenseEndpoint:  getEnvOrDefault("LICENSE_ENDPOINT", "https://licensing.example.com/api/v1"),
		LicenseProduct:   getEnvOrDefault("LICENSE_PRODUCT", "videopath"),
		SurveyDelayHours: getEnvAsIntOrDefault("SURVEY_DELAY_HOURS", 48),
		ViewWorkers:      getEnvAsIntOrDefault("VIEW_WORKERS", 3),
		FrontendURL:      getEnvOrDefault("FRONTEND_URL", "http://localhost:8080"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
