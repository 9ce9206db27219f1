// Package config loads the server settings from the environment, reading an
// optional .env file first.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingCredentials is returned in release mode when no admin password
// has been configured. The Config is still returned alongside it for hosts
// without an admin area.
var ErrMissingCredentials = errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set in release mode")

// SMTP holds the outgoing mail settings for contact notifications.
type SMTP struct {
	Host    string
	Port    string
	User    string
	Pass    string
	ToEmail string
}

// Configured reports whether credentials were supplied.
func (s SMTP) Configured() bool { return s.User != "" && s.Pass != "" }

// Admin holds the dashboard credentials.
type Admin struct {
	Username     string
	Password     string
	PasswordHash string
}

// Config is the whole server configuration.
type Config struct {
	Port        string
	GinMode     string
	DBPath      string
	ContentPath string
	LogLevel    string
	LogFormat   string

	BackgroundFPS   int
	ChatSessionTTL  time.Duration
	ChatMaxSessions int

	SMTP  SMTP
	Admin Admin
}

// Release reports whether gin runs in release mode.
func (c *Config) Release() bool { return c.GinMode == "release" }

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:        get("PORT", "8080"),
		GinMode:     get("GIN_MODE", "debug"),
		DBPath:      get("DB_PATH", "data/portfolio.db"),
		ContentPath: getenv("CONTENT_PATH"),
		LogLevel:    get("LOG_LEVEL", "info"),
		LogFormat:   get("LOG_FORMAT", "json"),
		SMTP: SMTP{
			Host:    get("SMTP_HOST", "smtp.gmail.com"),
			Port:    get("SMTP_PORT", "587"),
			User:    getenv("SMTP_USER"),
			Pass:    getenv("SMTP_PASS"),
			ToEmail: getenv("TO_EMAIL"),
		},
		Admin: Admin{
			Username:     get("ADMIN_USERNAME", "admin"),
			Password:     getenv("ADMIN_PASSWORD"),
			PasswordHash: getenv("ADMIN_PASSWORD_HASH"),
		},
	}

	var err error
	if cfg.BackgroundFPS, err = intVar(getenv, "BACKGROUND_FPS", 30); err != nil {
		return nil, err
	}
	if cfg.ChatMaxSessions, err = intVar(getenv, "CHAT_MAX_SESSIONS", 1000); err != nil {
		return nil, err
	}
	if cfg.ChatSessionTTL, err = durationVar(getenv, "CHAT_SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}

	if cfg.Release() && cfg.Admin.Password == "" && cfg.Admin.PasswordHash == "" {
		return cfg, ErrMissingCredentials
	}
	return cfg, nil
}

func intVar(getenv func(string) string, key string, def int) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return v, nil
}

func durationVar(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, raw)
	}
	return v, nil
}
