package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Database. Driver is "sqlite" or "postgres"; the postgres fields are
	// only consulted when the driver is postgres.
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Generation (OpenAI-compatible) endpoint. Optional; generation
	// endpoints return 503 when the key is empty.
	GenAPIKey  string
	GenBaseURL string

	// Public QR image service rendering PNGs from a payload string.
	QRServiceURL string

	// Media bucket on disk, served under /media.
	MediaDir      string
	PublicBaseURL string

	// Base URL the printed QR codes send customers to.
	ReviewBaseURL string

	SessionTTLHours int
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		DBDriver:        getEnv("DB_DRIVER", "sqlite"),
		DBPath:          getEnv("DB_PATH", "./reviewqr.db"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", ""),
		DBName:          getEnv("DB_NAME", "reviewqr"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		GenAPIKey:       getEnv("GEN_API_KEY", ""),
		GenBaseURL:      getEnv("GEN_BASE_URL", "https://api.openai.com/v1"),
		QRServiceURL:    getEnv("QR_SERVICE_URL", "https://api.qrserver.com/v1/create-qr-code/"),
		MediaDir:        getEnv("MEDIA_DIR", "./media"),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		ReviewBaseURL:   getEnv("REVIEW_BASE_URL", "http://localhost:3000/review"),
		SessionTTLHours: getEnvInt("SESSION_TTL_HOURS", 24),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
