package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains runtime configuration values.
type Config struct {
	Environment          string
	HTTPPort             string
	SurrealURL           string
	SurrealNamespace     string
	SurrealDatabase      string
	SurrealUser          string
	SurrealPass          string
	ResendAPIKey         string
	ResendBaseURL        string
	MailFrom             string
	OperatorEmail        string
	GeminiAPIKey         string
	GeminiModel          string
	StaticDir            string
	ServiceName          string
	RateLimitRPM         int
	NotifyWorkers        int
	NotifyQueueSize      int
	MailTimeout          time.Duration
	ShutdownTimeout      time.Duration
	TelemetryEndpoint    string
	TelemetryInsecure    bool
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSAllowCredentials bool
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:          getEnv("APP_ENV", "development"),
		HTTPPort:             getEnv("HTTP_PORT", getEnv("PORT", "3000")),
		SurrealURL:           getEnv("SURREALDB_URL", "ws://127.0.0.1:8000/rpc"),
		SurrealNamespace:     getEnv("SURREALDB_NS", "arrautomation"),
		SurrealDatabase:      getEnv("SURREALDB_DB", "site"),
		SurrealUser:          getEnv("SURREALDB_USER", "root"),
		SurrealPass:          getEnv("SURREALDB_PASS", "root"),
		ResendAPIKey:         os.Getenv("RESEND_API_KEY"),
		ResendBaseURL:        getEnv("RESEND_BASE_URL", "https://api.resend.com"),
		MailFrom:             getEnv("MAIL_FROM", "ARRAutomation <no-reply@arrautomation.com>"),
		OperatorEmail:        getEnv("OPERATOR_EMAIL", "arrautomation001@gmail.com"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		StaticDir:            getEnv("STATIC_DIR", "public"),
		ServiceName:          getEnv("SERVICE_NAME", "arrautomation-site"),
		RateLimitRPM:         getInt("RATE_LIMIT_RPM", 600),
		NotifyWorkers:        getInt("NOTIFY_WORKERS", 2),
		NotifyQueueSize:      getInt("NOTIFY_QUEUE_SIZE", 64),
		MailTimeout:          getDuration("MAIL_TIMEOUT", 15*time.Second),
		ShutdownTimeout:      getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		TelemetryEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		TelemetryInsecure:    getBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		CORSAllowedOrigins:   getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		CORSAllowedMethods:   getList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
		CORSAllowedHeaders:   getList("CORS_ALLOWED_HEADERS", []string{"Authorization", "Content-Type"}),
		CORSAllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", false),
	}

	// The starter .env ships with a placeholder Gemini key; treat it as unset.
	if cfg.GeminiAPIKey == "your_api_key_here" {
		cfg.GeminiAPIKey = ""
	}

	if cfg.NotifyWorkers < 1 {
		cfg.NotifyWorkers = 1
	}
	if cfg.NotifyQueueSize < 1 {
		cfg.NotifyQueueSize = 1
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getList(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		parts := strings.Split(v, ",")
		var cleaned []string
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			return cleaned
		}
	}
	return def
}
