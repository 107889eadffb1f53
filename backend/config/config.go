package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	TokenTTL   time.Duration
	ServerPort string

	// Directory holding the static catalog JSON files.
	CatalogDir string

	// Minimum quiz score (percent correct) counted as a pass.
	QuizPassThreshold int

	// How long a mentorship request stays cancellable before it completes.
	MentorshipDelay time.Duration
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "masterhub"),
		JWTSecret:         getEnv("JWT_SECRET", "secret"),
		TokenTTL:          getEnvDuration("JWT_TTL", 72*time.Hour),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		CatalogDir:        getEnv("CATALOG_DIR", "data"),
		QuizPassThreshold: getEnvInt("QUIZ_PASS_THRESHOLD", 70),
		MentorshipDelay:   getEnvDuration("MENTORSHIP_DELAY", time.Second),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
