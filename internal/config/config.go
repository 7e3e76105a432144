// Package config loads service configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Store driver names accepted by ARCADE_STORE.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config is the full arcaded configuration.
type Config struct {
	Addr string `env:"ARCADE_ADDR" envDefault:":8080"`

	// Store selects the session store driver: memory, redis, or sqlite.
	Store      string        `env:"ARCADE_STORE" envDefault:"memory"`
	SessionTTL time.Duration `env:"ARCADE_SESSION_TTL" envDefault:"24h"`

	RedisAddr     string `env:"ARCADE_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"ARCADE_REDIS_PASSWORD"`

	SQLitePath string `env:"ARCADE_DB_PATH" envDefault:"arcade.db"`
	StatsPath  string `env:"ARCADE_STATS_PATH" envDefault:"arcade_stats.db"`

	// JWTSecret enables bearer-token identity when set; empty means
	// all play is anonymous.
	JWTSecret string `env:"ARCADE_JWT_SECRET"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
