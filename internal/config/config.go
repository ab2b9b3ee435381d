// Package config provides runtime configuration values for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Config holds everything read from the environment at start.
type Config struct {
	Port            string
	DatabaseURL     string
	JWTSecret       string
	JWTExpires      time.Duration
	TokenRetention  time.Duration
	CORSOrigins     string
	ReportLocation  *time.Location
	BcryptCost      int
	LogLevel        string
	DBLogLevel      string
	ShutdownTimeout time.Duration

	SeedAdminUsername string
	SeedAdminPassword string
}

const defaultJWTSecret = "change-this-secret-in-production"

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// durenv accepts Go durations ("8h", "90m").
func durenv(key string, def time.Duration) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func locenv(key string) *time.Location {
	name := getenv(key, "UTC")
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getenv("DB_HOST", "localhost"),
		getenv("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		getenv("DB_NAME", "inventario"),
		getenv("DB_PORT", "5432"),
	)
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		Port:              strings.TrimPrefix(getenv("PORT", "4000"), ":"),
		DatabaseURL:       databaseURL(),
		JWTSecret:         getenv("JWT_SECRET", defaultJWTSecret),
		JWTExpires:        durenv("JWT_EXPIRES", 8*time.Hour),
		TokenRetention:    durenv("TOKEN_RETENTION", 8*time.Hour),
		CORSOrigins:       getenv("CORS_ORIGINS", "http://localhost:5173"),
		ReportLocation:    locenv("REPORT_TIMEZONE"),
		BcryptCost:        atoienv("BCRYPT_COST", 10),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		DBLogLevel:        getenv("DB_LOG_LEVEL", "warn"),
		ShutdownTimeout:   durenv("SHUTDOWN_TIMEOUT", 10*time.Second),
		SeedAdminUsername: os.Getenv("SEED_ADMIN_USERNAME"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
}

// UsesDefaultSecret reports whether JWT_SECRET was left unset.
func (c Config) UsesDefaultSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}
