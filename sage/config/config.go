package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string

	CompletionAPIKey  string
	CompletionBaseURL string
	PrimaryModel      string
	FallbackModel     string
}

// LoadConfig reads configuration from the environment (after a best-effort
// .env load). The completion credential, store coordinates and JWT secret
// are required; a missing value is fatal for the invocation.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", ""),
		JWTSecret:  getEnv("JWT_SECRET", ""),

		CompletionAPIKey:  getEnv("COMPLETION_API_KEY", ""),
		CompletionBaseURL: getEnv("COMPLETION_BASE_URL", ""),
		PrimaryModel:      getEnv("SAGE_PRIMARY_MODEL", "gpt-4o"),
		FallbackModel:     getEnv("SAGE_FALLBACK_MODEL", "gpt-4o-mini"),
	}

	var missing []string
	for _, req := range []struct{ key, val string }{
		{"DB_USER", cfg.DBUser},
		{"DB_HOST", cfg.DBHost},
		{"DB_NAME", cfg.DBName},
		{"JWT_SECRET", cfg.JWTSecret},
		{"COMPLETION_API_KEY", cfg.CompletionAPIKey},
	} {
		if req.val == "" {
			missing = append(missing, req.key)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}
