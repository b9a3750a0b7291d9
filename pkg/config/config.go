package config

import (
	"log"
	"os"
)

// Config - application configuration, loaded from environment variables
type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Server
	ServerPort string

	// Session
	JWTSecret string

	// Redis (optional - rate limiting falls back to in-memory when empty)
	RedisAddr string

	// Seeding
	SeedEvents bool

	// Environment: "development" or "production"
	Environment string
}

// Load reads the configuration with sane development defaults.
func Load() *Config {
	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "shahrdav"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "shahrdav"),

		ServerPort: getEnv("SERVER_PORT", "8080"),

		JWTSecret: getEnv("JWT_SECRET", "shahrdav-dev-secret"),

		RedisAddr: getEnv("REDIS_ADDR", ""),

		SeedEvents: getEnv("SEED_EVENTS", "false") == "true",

		Environment: getEnv("ENVIRONMENT", "development"),
	}

	log.Println("Configuration loaded:")
	log.Printf("   DB: %s@%s:%s/%s", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName)
	log.Printf("   Server Port: %s", cfg.ServerPort)
	log.Printf("   JWT Secret: %s", maskString(cfg.JWTSecret))
	log.Printf("   Environment: %s", cfg.Environment)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// maskString hides most of a secret for log output
func maskString(s string) string {
	if len(s) < 8 {
		return "***"
	}
	return s[:2] + "***" + s[len(s)-2:]
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
