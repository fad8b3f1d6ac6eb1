package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/alareon123/spina-bot/internal/domain"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken      string  `envconfig:"BOT_TOKEN" required:"true"`
	DatabaseURL   string  `envconfig:"DATABASE_URL" default:"sqlite://./data/spina_bot.db"` // sqlite://path, bare path or postgres://...
	AdminIDs      []int64 `envconfig:"ADMIN_IDS"`                                           // comma-separated Telegram user IDs
	ReminderTZ    string  `envconfig:"REMINDER_TZ" default:"Europe/Moscow"`
	BroadcastRate float64 `envconfig:"BROADCAST_RATE" default:"25"` // messages per second
	LogLevel      string  `envconfig:"LOG_LEVEL" default:"info"`    // debug|info|warn|error
	HTTPAddr      string  `envconfig:"HTTP_ADDR" default:":8080"`   // healthz, readyz
}

// Load reads environment variables into Config and validates them.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if cfg.BotToken == "" {
		return cfg, errors.New("BOT_TOKEN is empty")
	}
	if _, err := cfg.Location(); err != nil {
		return cfg, fmt.Errorf("REMINDER_TZ: %w", err)
	}
	if cfg.BroadcastRate <= 0 {
		return cfg, fmt.Errorf("BROADCAST_RATE must be positive, got %v", cfg.BroadcastRate)
	}
	return cfg, nil
}

// Location resolves the reminder time zone.
func (c Config) Location() (*time.Location, error) {
	return domain.ValidateTZ(c.ReminderTZ)
}

// Admins returns the operator allow-list.
func (c Config) Admins() domain.AdminSet {
	return domain.NewAdminSet(c.AdminIDs...)
}
