// internal/config/config.go
//
// Process configuration, read once at startup. Call sites receive this
// struct (or values derived from it) instead of reading the environment
// ad hoc.

package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the play server configuration.
type Config struct {
	Port         string // HTTP listen port
	ClientOrigin string // browser origin allowed by CORS

	ContentBaseURL  string        // Game Content Service
	ReportBaseURL   string        // Result Reporting Service
	UpstreamTimeout time.Duration // per upstream request

	JWTSecret string // shared with the upstream platform, for identity claims

	DatabasePath     string        // SQLite journal location
	RetryInterval    time.Duration // result queue flush cadence
	RetryMaxAttempts int           // per queued submission

	CorrectDwell time.Duration // correct-feedback display time
	WrongDwell   time.Duration // wrong-feedback display time
}

// Load reads configuration from environment variables with defaults that
// match local development.
func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "5175"),
		ClientOrigin:     getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		ContentBaseURL:   getEnv("CONTENT_BASE_URL", "http://localhost:4000"),
		ReportBaseURL:    getEnv("REPORT_BASE_URL", "http://localhost:4000"),
		UpstreamTimeout:  getDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		JWTSecret:        getEnv("JWT_SECRET", "dev_secret_change_me"),
		DatabasePath:     getEnv("DB_PATH", "./data/arcade.db"),
		RetryInterval:    getDuration("RESULT_RETRY_INTERVAL", 30*time.Second),
		RetryMaxAttempts: getInt("RESULT_RETRY_MAX_ATTEMPTS", 10),
		CorrectDwell:     getDuration("CORRECT_DWELL", 1500*time.Millisecond),
		WrongDwell:       getDuration("WRONG_DWELL", 1000*time.Millisecond),
	}
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
