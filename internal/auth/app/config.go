// Package app loads configuration and wires the service together.
// Config comes from the environment and an optional .env file via Viper;
// env vars override the file.
package app

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// Port is the HTTP listen port.
	Port int `mapstructure:"PORT"`
	// Env is the application environment (dev, staging, prod).
	Env string `mapstructure:"ENV"`

	// DatabaseDriver selects the store backend: "sqlite" or "postgres".
	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	// DatabaseDSN is the driver DSN. For sqlite this is the database file
	// path; for postgres a standard connection string.
	DatabaseDSN string `mapstructure:"DATABASE_DSN"`

	// Issuer is the iss claim stamped into and required from all tokens.
	Issuer string `mapstructure:"AUTH_ISSUER"`
	// AccessSecret signs access tokens. Required.
	AccessSecret string `mapstructure:"AUTH_ACCESS_SECRET"`
	// EmailSecret signs email-verification tokens. Required, and must
	// differ from AccessSecret so the token classes stay separate.
	EmailSecret string `mapstructure:"AUTH_EMAIL_SECRET"`
	// PepperFile is the path of the refresh-token pepper file; generated
	// on first run when absent.
	PepperFile string `mapstructure:"AUTH_PEPPER_FILE"`

	// AccessTTL is the access token lifetime (e.g. "60m").
	AccessTTL string `mapstructure:"AUTH_ACCESS_TTL"`
	// RefreshTTL is the session/refresh lifetime (e.g. "1440h" = 60 days).
	RefreshTTL string `mapstructure:"AUTH_REFRESH_TTL"`
	// EmailTTL is the verification token lifetime (e.g. "24h").
	EmailTTL string `mapstructure:"AUTH_EMAIL_TTL"`

	// LogLevel is debug, info, warn, or error.
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// LogFormat is json or text.
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// ShutdownGracePeriod bounds graceful shutdown (e.g. "10s").
	ShutdownGracePeriod time.Duration `mapstructure:"SHUTDOWN_GRACE_PERIOD"`
	// HousekeepingInterval is the purge sweep cadence (e.g. "1h").
	HousekeepingInterval time.Duration `mapstructure:"HOUSEKEEPING_INTERVAL"`
	// HousekeepingRetention is how long dead sessions are kept before the
	// sweep deletes them (e.g. "720h" = 30 days).
	HousekeepingRetention time.Duration `mapstructure:"HOUSEKEEPING_RETENTION"`
}

// LoadConfig reads .env (if present), then builds and validates Config
// from the environment. Missing .env is ignored; env vars win.
func LoadConfig() (Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	// Unmarshal only sees keys viper already knows about, and AutomaticEnv
	// alone does not register any. Every key must be bound explicitly or
	// env-only values (the secrets in particular) never reach the struct.
	for _, key := range []string{
		"PORT", "ENV",
		"DATABASE_DRIVER", "DATABASE_DSN",
		"AUTH_ISSUER", "AUTH_ACCESS_SECRET", "AUTH_EMAIL_SECRET", "AUTH_PEPPER_FILE",
		"AUTH_ACCESS_TTL", "AUTH_REFRESH_TTL", "AUTH_EMAIL_TTL",
		"LOG_LEVEL", "LOG_FORMAT",
		"SHUTDOWN_GRACE_PERIOD", "HOUSEKEEPING_INTERVAL", "HOUSEKEEPING_RETENTION",
	} {
		_ = v.BindEnv(key)
	}

	v.SetDefault("PORT", 8080)
	v.SetDefault("ENV", "dev")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "auth.db")
	v.SetDefault("AUTH_ISSUER", "sessiond")
	v.SetDefault("AUTH_PEPPER_FILE", "pepper")
	v.SetDefault("AUTH_ACCESS_TTL", "60m")
	v.SetDefault("AUTH_REFRESH_TTL", "1440h") // 60 days
	v.SetDefault("AUTH_EMAIL_TTL", "24h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second)
	v.SetDefault("HOUSEKEEPING_INTERVAL", time.Hour)
	v.SetDefault("HOUSEKEEPING_RETENTION", 30*24*time.Hour)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.AccessSecret == "" {
		return Config{}, errors.New("config: AUTH_ACCESS_SECRET must be set")
	}
	if cfg.EmailSecret == "" {
		return Config{}, errors.New("config: AUTH_EMAIL_SECRET must be set")
	}
	if cfg.EmailSecret == cfg.AccessSecret {
		return Config{}, errors.New("config: AUTH_EMAIL_SECRET must differ from AUTH_ACCESS_SECRET")
	}
	switch cfg.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return Config{}, errors.New("config: DATABASE_DRIVER must be sqlite or postgres")
	}

	return cfg, nil
}

// AccessTokenTTL parses AccessTTL, falling back to 60m.
func (c Config) AccessTokenTTL() time.Duration {
	return parseTTL(c.AccessTTL, 60*time.Minute)
}

// RefreshTokenTTL parses RefreshTTL, falling back to 60 days.
func (c Config) RefreshTokenTTL() time.Duration {
	return parseTTL(c.RefreshTTL, 60*24*time.Hour)
}

// EmailTokenTTL parses EmailTTL, falling back to 24h.
func (c Config) EmailTokenTTL() time.Duration {
	return parseTTL(c.EmailTTL, 24*time.Hour)
}

func parseTTL(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
