package config

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

// Storage and cache drivers.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Mongo MongoConfig
	Cache CacheConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI                string        `env:"MONGO_URI,                 default=mongodb://localhost:27017"`
	Database           string        `env:"MONGO_DB,                  default=identity"`
	AccountsCollection string        `env:"MONGO_ACCOUNTS_COLLECTION, default=accounts"`
	RolesCollection    string        `env:"MONGO_ROLES_COLLECTION,    default=roles"`
	Timeout            time.Duration `env:"MONGO_TIMEOUT,             default=10s"`
}

type CacheConfig struct {
	Driver string        `env:"CACHE_DRIVER, default=none"`
	TTL    time.Duration `env:"CACHE_TTL,    default=5m"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// IsProduction reports whether ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects unknown drivers and a missing JWT secret.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.Cache.Driver {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("config: unknown CACHE_DRIVER %q", c.Cache.Driver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger zerolog.Logger) *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		logger.Error().Err(err).Msg("failed to load configuration")
		panic(err)
	}
	return cfg
}

// LoadWith reads and validates configuration from an arbitrary lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
