// Package config reads the process-wide configuration from the
// environment once at startup. Nothing here is hot-reloaded: the parsed
// values are read-only for the process lifetime.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"adventcal/internal/domain/door"
)

// Config is the full startup configuration surface.
type Config struct {
	AdminPassword string `env:"ADMIN_PASSWORD,required"`
	BaseURL       string `env:"HOSTING_URL_BASE,required"`
	CalendarYear  int    `env:"CALENDAR_YEAR,required"`
	CalendarMonth int    `env:"CALENDAR_MONTH,required"`
	MaxDay        int    `env:"MAX_DAY,required"`
	Kid1Name      string `env:"KID_1_NAME" envDefault:"Kid 1"`
	Kid2Name      string `env:"KID_2_NAME" envDefault:"Kid 2"`
	DebugMode     bool   `env:"DEBUG_MODE" envDefault:"false"`

	DataFile string `env:"DATA_FILE" envDefault:"advent_messages.csv"`
	Addr     string `env:"ADVENT_ADDR" envDefault:":8080"`
	Env      string `env:"ADVENT_ENV" envDefault:"development"`
}

// Load parses the environment into a Config and checks the calendar
// parameters. Any missing or malformed required field is an error; the
// caller is expected to treat that as fatal.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Calendar().Validate(); err != nil {
		return Config{}, fmt.Errorf("calendar config: %w", err)
	}
	return cfg, nil
}

// Calendar builds the immutable calendar parameters from the raw config.
func (c Config) Calendar() door.Calendar {
	return door.Calendar{
		Year:      c.CalendarYear,
		Month:     time.Month(c.CalendarMonth),
		MaxDay:    c.MaxDay,
		BaseURL:   c.BaseURL,
		Kid1Name:  c.Kid1Name,
		Kid2Name:  c.Kid2Name,
		DebugMode: c.DebugMode,
	}
}

// IsProduction reports whether the server runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
