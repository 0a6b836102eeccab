package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	Port           string
	MaxOpenConns   int
	MaxIdleConns   int
	RequestTimeout time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	AdminEmail    string
	AdminPassword string

	StrictStatusTransitions bool
	CompletionJobSpec       string

	RabbitMQURL      string
	RabbitMQExchange string

	CORSAllowedOrigins []string
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := &Config{
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		Port:                    getEnv("PORT", "8080"),
		MaxOpenConns:            getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:            getEnvInt("DB_MAX_IDLE_CONNS", 5),
		RequestTimeout:          getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		JWTTTL:                  getEnvDuration("JWT_TTL", time.Hour),
		AdminEmail:              os.Getenv("ADMIN_EMAIL"),
		AdminPassword:           os.Getenv("ADMIN_PASSWORD"),
		StrictStatusTransitions: getEnvBool("STRICT_STATUS_TRANSITIONS", true),
		CompletionJobSpec:       getEnv("COMPLETION_JOB_SPEC", "@every 5m"),
		RabbitMQURL:             os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange:        getEnv("RABBITMQ_EXCHANGE", "parkspot"),
		CORSAllowedOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
		log.Printf("Invalid value for %s (%q), using %d", key, v, def)
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
		log.Printf("Invalid value for %s (%q), using %t", key, v, def)
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			return d
		}
		log.Printf("Invalid value for %s (%q), using %s", key, v, def)
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
