package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type Config struct {
	Addr           string        `env:"PHANTOMID_ADDR" envDefault:":8080"`
	DBDriver       string        `env:"PHANTOMID_DB_DRIVER" envDefault:"sqlite3"`
	DatabaseURL    string        `env:"PHANTOMID_DATABASE_URL" envDefault:"phantomid.db"`
	Migrations     string        `env:"PHANTOMID_MIGRATIONS" envDefault:"file://migrations"`
	SessionLife    time.Duration `env:"PHANTOMID_SESSION_LIFETIME" envDefault:"168h"`
	CookieSecure   bool          `env:"PHANTOMID_COOKIE_SECURE" envDefault:"false"`
	AllowedOrigins []string      `env:"PHANTOMID_ALLOWED_ORIGINS" envSeparator:","`
	LogLevel       string        `env:"PHANTOMID_LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"PHANTOMID_LOG_FORMAT" envDefault:"text"`

	Discord OAuthProvider `envPrefix:"DISCORD_"`
}

type OAuthProvider struct {
	Key         string `env:"KEY"`
	Secret      string `env:"SECRET"`
	CallbackURL string `env:"CALLBACK_URL"`
}

// Enabled reports whether enough is configured to register the provider.
func (p OAuthProvider) Enabled() bool {
	return p.Key != "" && p.Secret != ""
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}
	return nil
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// NewLogger builds the process logger from the log settings.
func (c *Config) NewLogger() *slog.Logger {
	level, _ := c.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
