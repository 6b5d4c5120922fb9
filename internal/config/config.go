// Package config loads application settings from defaults, an optional TOML
// file, and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Default values.
const (
	DefaultPort      = "8080"
	DefaultBackend   = "sqlite"
	DefaultDBPath    = "./data/mytodos.db"
	DefaultBadgerDir = "./data/badger"
	DefaultTheme     = "system"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds application settings.
type Config struct {
	Port           string `toml:"port" validate:"required,numeric"`
	Backend        string `toml:"backend" validate:"oneof=sqlite badger memory"`
	DBPath         string `toml:"db_path" validate:"required_if=Backend sqlite"`
	BadgerDir      string `toml:"badger_dir" validate:"required_if=Backend badger"`
	SeedPath       string `toml:"seed_path"`
	AppearanceFile string `toml:"appearance_file"`
	Theme          string `toml:"theme" validate:"oneof=system light dark"`
	LogLevel       string `toml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat      string `toml:"log_format" validate:"oneof=text json"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Port:      DefaultPort,
		Backend:   DefaultBackend,
		DBPath:    DefaultDBPath,
		BadgerDir: DefaultBadgerDir,
		Theme:     DefaultTheme,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment variables are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys in config file %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Backend = getEnv("MYTODOS_BACKEND", cfg.Backend)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.BadgerDir = getEnv("BADGER_DIR", cfg.BadgerDir)
	cfg.SeedPath = getEnv("SEED_PATH", cfg.SeedPath)
	cfg.AppearanceFile = getEnv("APPEARANCE_FILE", cfg.AppearanceFile)
	cfg.Theme = getEnv("THEME", cfg.Theme)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
}

func normalize(cfg *Config) {
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %q)", fe.Field(), fe.Tag(), fmt.Sprint(fe.Value())))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
