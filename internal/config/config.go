package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env             string        // dev, prod
	HTTPPort        string        // default 8080
	DataDir         string        // directory holding the record partitions
	ShutdownTimeout time.Duration // graceful shutdown timeout

	// The administrator is supplied by configuration rather than baked into
	// the code; the defaults match the well-known account.
	AdminID       string
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DataDir:         getEnv("DATA_DIR", "./data"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		AdminID:         getEnv("ADMIN_ID", "ADMIN001"),
		AdminName:       getEnv("ADMIN_NAME", "System Administrator"),
		AdminEmail:      getEnv("ADMIN_EMAIL", "admin@healthcare.com"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "admin123"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		fmt.Fprintf(os.Stderr, "invalid duration for %s=%q, using default %s\n", key, v, def)
	}
	return def
}
