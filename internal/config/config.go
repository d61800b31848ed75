package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the server.
type Config struct {
	HTTPAddr      string
	DatabaseURL   string
	JWTSecret     string
	TokenTTL      time.Duration
	TelegramToken string
	SweepInterval time.Duration

	// Amendments on this priority or category are routed to the Director.
	CriticalPriorityID uint
	AOGCategoryID      uint
}

// Load reads configuration from environment variables with sane defaults.
// TELEGRAM_TOKEN is optional; without it push notifications are disabled
// and only the in-app notification rows are written.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:           strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:           parseHours(strings.TrimSpace(os.Getenv("TOKEN_TTL_HOURS"))),
		TelegramToken:      strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		SweepInterval:      parseHours(strings.TrimSpace(os.Getenv("SWEEP_INTERVAL_HOURS"))),
		CriticalPriorityID: parseID(strings.TrimSpace(os.Getenv("CRITICAL_PRIORITY_ID"))),
		AOGCategoryID:      parseID(strings.TrimSpace(os.Getenv("AOG_CATEGORY_ID"))),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "maintenance_tracker.db"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = 6 * time.Hour
	}
	if cfg.CriticalPriorityID == 0 {
		cfg.CriticalPriorityID = 1
	}
	if cfg.AOGCategoryID == 0 {
		cfg.AOGCategoryID = 1
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func parseHours(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}

func parseID(raw string) uint {
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}
