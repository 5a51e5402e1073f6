package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"FruitStore/internal/storage"
)

const EnvPrefix = "FRUITSTORE"

const minJWTSecret = 32

type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Log     LogConfig     `mapstructure:"log"`
	Store   StoreConfig   `mapstructure:"store"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Dev   bool   `mapstructure:"dev"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type CatalogConfig struct {
	// Seed is an http(s) URL, a file path, or empty for the bundled document.
	Seed string `mapstructure:"seed"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	RateLimit int           `mapstructure:"rate_limit"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
}

// New returns a viper instance with defaults, the optional fruitstore.yaml
// search path and FRUITSTORE_* environment overrides. Callers may bind
// flags onto it before Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dev", false)
	v.SetDefault("store.driver", storage.DriverSQLite)
	v.SetDefault("store.dsn", "fruitstore.db")
	v.SetDefault("catalog.seed", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 15*time.Minute)
	v.SetDefault("auth.rate_limit", 20)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.token", "")

	v.SetConfigName("fruitstore")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.fruitstore/")
	v.AddConfigPath("/etc/fruitstore/")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file if one exists and decodes the result. A missing
// file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// ValidateServe checks what the HTTP server needs beyond the defaults.
func (c *Config) ValidateServe() error {
	if len(c.Auth.JWTSecret) < minJWTSecret {
		return fmt.Errorf("auth.jwt_secret is required and must be at least %d chars", minJWTSecret)
	}
	if c.Metrics.Enabled && c.Metrics.Token == "" {
		return errors.New("metrics.token is required when metrics are enabled")
	}
	switch c.Store.Driver {
	case storage.DriverMemory, storage.DriverSQLite, storage.DriverPostgres:
	default:
		return fmt.Errorf("%w %q", storage.ErrUnknownDriver, c.Store.Driver)
	}
	return nil
}
