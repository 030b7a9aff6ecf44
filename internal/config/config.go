package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string
	RedisURL   string
	JWTSecret  string
	JWTExpiry  time.Duration

	// Identity provider + profile store (Firebase project).
	FirebaseAPIKey    string
	FirebaseProjectID string
	// FirebaseDatabaseURL overrides the default RTDB endpoint derived from
	// the project ID. Mainly useful for tests.
	FirebaseDatabaseURL string

	// Question generation/grading (Gemini).
	GeminiAPIKey string
	GeminiModel  string
	LLMTimeout   time.Duration

	// Outbound HTTP timeout for the identity, profile and video clients.
	HTTPTimeout time.Duration

	// QuizCount is how many questions a practice batch requests.
	QuizCount int

	// AllowedOrigins controls HTTP CORS. Empty slice means all origins are
	// permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		GinMode:             getEnv("GIN_MODE", "debug"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "pretty"),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:           getEnv("JWT_SECRET", "change-this-to-a-secure-random-string"),
		JWTExpiry:           time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		FirebaseAPIKey:      os.Getenv("FIREBASE_WEB_API_KEY"),
		FirebaseProjectID:   os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseDatabaseURL: os.Getenv("FIREBASE_DATABASE_URL"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		LLMTimeout:          time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 30)) * time.Second,
		HTTPTimeout:         time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 10)) * time.Second,
		QuizCount:           getEnvInt("QUIZ_COUNT", 10),
		AllowedOrigins:      parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

// Validate checks that every credential the external collaborators need is
// present. Missing configuration must surface at startup, not as a silent
// no-op on the first request.
func (c *Config) Validate() error {
	var missing []string
	if c.FirebaseAPIKey == "" {
		missing = append(missing, "FIREBASE_WEB_API_KEY")
	}
	if c.FirebaseProjectID == "" && c.FirebaseDatabaseURL == "" {
		missing = append(missing, "FIREBASE_PROJECT_ID")
	}
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// DatabaseURL returns the profile store endpoint.
func (c *Config) DatabaseURL() string {
	if c.FirebaseDatabaseURL != "" {
		return c.FirebaseDatabaseURL
	}
	return fmt.Sprintf("https://%s-default-rtdb.firebaseio.com", c.FirebaseProjectID)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
