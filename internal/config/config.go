// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort  string
	FrontendURL string

	// LLM intent extraction
	ParserAPIKey  string
	ParserModel   string
	ParserBaseURL string

	// Google Calendar
	GoogleCredentialsFile    string
	GoogleCredentialsJSONB64 string
	GoogleTokenFile          string
	GoogleTokenJSONB64       string
	GoogleRedirectURI        string
	CalendarID               string
	ReturnTokenB64InCallback bool

	// SMTP notifications
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPUseTLS   bool

	// Always-invited test attendee, optional
	TestAttendeeEmail string

	// Infrastructure, all optional: the server degrades to in-process
	// fallbacks when unset
	DatabaseURL      string
	RedisURL         string
	RabbitMQURL      string
	RabbitMQPrefetch int

	RateLimit       string
	EnableHSTS      bool
	ServerDebugMode bool
	WorkerDebugMode bool
	OTELEnabled     bool
	OTELEndpoint    string

	// Extra closed days merged into the working-hours calendar
	ClosedDaysFile string
}

// Load loads configuration from the environment, reading a .env file first
// if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		ParserAPIKey:  getEnv("GROQ_API_KEY", ""),
		ParserModel:   getEnv("PARSER_MODEL", ""),
		ParserBaseURL: getEnv("PARSER_BASE_URL", ""),

		GoogleCredentialsFile:    getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		GoogleCredentialsJSONB64: getEnv("GOOGLE_CREDENTIALS_JSON_B64", ""),
		GoogleTokenFile:          getEnv("GOOGLE_TOKEN_FILE", "token.json"),
		GoogleTokenJSONB64:       getEnv("GOOGLE_TOKEN_JSON_B64", ""),
		GoogleRedirectURI:        getEnv("GOOGLE_REDIRECT_URI", ""),
		CalendarID:               getEnv("CALENDAR_ID", "primary"),
		ReturnTokenB64InCallback: getEnvBool("RETURN_TOKEN_B64_IN_CALLBACK", false),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPUseTLS:   getEnvBool("SMTP_USE_TLS", true),

		TestAttendeeEmail: getEnv("TEST_ATTENDEE_EMAIL", ""),

		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQPrefetch: getEnvInt("RABBITMQ_PREFETCH", 1),

		RateLimit:       getEnv("RATE_LIMIT", "5-S"),
		EnableHSTS:      getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode: getEnvBool("SERVER_DEBUG_MODE", false),
		WorkerDebugMode: getEnvBool("WORKER_DEBUG_MODE", false),
		OTELEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		ClosedDaysFile: getEnv("CLOSED_DAYS_FILE", ""),
	}

	if cfg.ParserAPIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is required for intent extraction")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
