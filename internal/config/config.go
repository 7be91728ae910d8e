package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Calendar   CalendarConfig   `yaml:"calendar"`
	Limits     LimitsConfig     `yaml:"limits"`
	Validation ValidationConfig `yaml:"validation"`
	Ads        AdsConfig        `yaml:"ads"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"LOTTO_ADDR"`
	BaseURL         string        `yaml:"base_url" env:"LOTTO_BASE_URL"`
	CookieName      string        `yaml:"cookie_name" env:"LOTTO_COOKIE_NAME"`
	SessionTTL      time.Duration `yaml:"session_ttl" env:"LOTTO_SESSION_TTL"`
	JanitorInterval time.Duration `yaml:"janitor_interval" env:"LOTTO_JANITOR_INTERVAL"`
}

type CalendarConfig struct {
	// Timezone decides when "today" rolls over.
	Timezone string `yaml:"timezone" env:"LOTTO_TIMEZONE"`
}

type LimitsConfig struct {
	SubmitRPS   float64 `yaml:"submit_rps" env:"LOTTO_SUBMIT_RPS"`
	SubmitBurst int     `yaml:"submit_burst" env:"LOTTO_SUBMIT_BURST"`
}

type ValidationConfig struct {
	MaxNameLength int `yaml:"max_name_length" env:"LOTTO_MAX_NAME_LENGTH"`
	MinBirthYear  int `yaml:"min_birth_year" env:"LOTTO_MIN_BIRTH_YEAR"`
}

type AdSlotConfig struct {
	Unit   string `yaml:"unit" env:"UNIT"`
	Width  int    `yaml:"width" env:"WIDTH"`
	Height int    `yaml:"height" env:"HEIGHT"`
}

type AdsConfig struct {
	ScriptURL string       `yaml:"script_url" env:"LOTTO_ADS_SCRIPT_URL"`
	Top       AdSlotConfig `yaml:"top" envPrefix:"LOTTO_ADS_TOP_"`
	Bottom    AdSlotConfig `yaml:"bottom" envPrefix:"LOTTO_ADS_BOTTOM_"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" env:"LOTTO_METRICS_ENABLED"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			BaseURL:         "http://localhost:8080",
			CookieName:      "lotto_session",
			SessionTTL:      time.Hour,
			JanitorInterval: 10 * time.Minute,
		},
		Calendar: CalendarConfig{Timezone: "UTC"},
		Limits:   LimitsConfig{SubmitRPS: 2, SubmitBurst: 5},
		Validation: ValidationConfig{
			MaxNameLength: 20,
			MinBirthYear:  1900,
		},
		Ads: AdsConfig{
			ScriptURL: "https://t1.daumcdn.net/kas/static/ba.min.js",
			Top:       AdSlotConfig{Unit: "DAN-5xgTcCEfRRZJIrBe", Width: 320, Height: 100},
			Bottom:    AdSlotConfig{Unit: "DAN-NsHwPpuUn0NEVjzI", Width: 320, Height: 50},
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.CookieName == "" {
		errs = append(errs, errors.New("server.cookie_name is required"))
	}
	if c.Server.SessionTTL <= 0 {
		errs = append(errs, errors.New("server.session_ttl must be positive"))
	}
	if c.Server.JanitorInterval <= 0 {
		errs = append(errs, errors.New("server.janitor_interval must be positive"))
	}
	if c.Limits.SubmitRPS <= 0 || c.Limits.SubmitBurst <= 0 {
		errs = append(errs, errors.New("limits.submit_rps and limits.submit_burst must be positive"))
	}
	if c.Validation.MaxNameLength <= 0 {
		errs = append(errs, errors.New("validation.max_name_length must be positive"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location resolves the calendar time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("calendar.timezone %q: %w", c.Calendar.Timezone, err)
	}
	return loc, nil
}
