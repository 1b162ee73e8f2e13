// Package config loads application configuration from environment
// variables. A .env file in the working directory is applied first when it
// exists; variables already set in the environment win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// MySQLConfig holds the catalog connection settings.
type MySQLConfig struct {
	Host string `env:"MYSQL_HOST" envDefault:"localhost" validate:"required"`
	Port string `env:"MYSQL_PORT" envDefault:"3306" validate:"required,numeric"`
	User string `env:"MYSQL_USER" envDefault:"root" validate:"required"`
	Pass string `env:"MYSQL_PASS"`
	Name string `env:"MYSQL_DB" envDefault:"sakila" validate:"required"`
}

// DSN returns the go-sql-driver/mysql data source name.
func (c MySQLConfig) DSN() string {
	auth := c.User
	if c.Pass != "" {
		auth = fmt.Sprintf("%s:%s", c.User, c.Pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, c.Host, c.Port, c.Name)
}

// MongoConfig holds the search-log sink settings. The URI is assembled as
// prefix + credentials + suffix, e.g. "mongodb://" + "u:p" + "@host:27017/".
type MongoConfig struct {
	URIPrefix  string        `env:"MONGO_URI_PREFIX" envDefault:"mongodb://"`
	URISuffix  string        `env:"MONGO_URI_SUFFIX" envDefault:"@localhost:27017/"`
	User       string        `env:"MONGO_USER"`
	Pass       string        `env:"MONGO_PASS"`
	Database   string        `env:"MONGO_DB" envDefault:"movie_logs" validate:"required"`
	Collection string        `env:"MONGO_COLL" envDefault:"search_logs" validate:"required"`
	Timeout    time.Duration `env:"MONGO_TIMEOUT" envDefault:"3s" validate:"gt=0"`
}

// URI returns the connection string. Without a user the credential part
// and its "@" separator are dropped.
func (c MongoConfig) URI() string {
	if c.URIPrefix == "" && c.URISuffix == "" {
		return ""
	}
	if c.User == "" {
		return c.URIPrefix + strings.TrimPrefix(c.URISuffix, "@")
	}
	cred := c.User
	if c.Pass != "" {
		cred += ":" + c.Pass
	}
	return c.URIPrefix + cred + c.URISuffix
}

// RedisConfig holds the lookup cache settings. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0" validate:"gte=0"`
	TLS      bool          `env:"REDIS_TLS" envDefault:"false"`
	TTL      time.Duration `env:"LOOKUP_CACHE_TTL" envDefault:"10m" validate:"gt=0"`
	Prefix   string        `env:"LOOKUP_CACHE_PREFIX" envDefault:"moviecat:lookup"`
}

// EventsConfig holds the search event mirror settings. An empty AMQPURL
// disables publishing.
type EventsConfig struct {
	AMQPURL string `env:"SEARCH_EVENTS_AMQP_URL"`
	Queue   string `env:"SEARCH_EVENTS_QUEUE" envDefault:"search.logged" validate:"required"`
}

// RateLimitConfig controls the per-client token bucket on the stats API.
// Capacity 0 disables limiting.
type RateLimitConfig struct {
	Capacity       int           `env:"STATS_RATE_CAPACITY" envDefault:"60" validate:"gte=0"`
	RefillTokens   int           `env:"STATS_RATE_REFILL_TOKENS" envDefault:"1" validate:"gte=0"`
	RefillInterval time.Duration `env:"STATS_RATE_REFILL_INTERVAL" envDefault:"1s" validate:"gte=0"`
	Prefix         string        `env:"STATS_RATE_PREFIX" envDefault:"moviecat:rl"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	File       string `env:"LOG_FILE" envDefault:"logs/moviecat.log"`
	Level      string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"10" validate:"gt=0"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3" validate:"gte=0"`
}

// Empty keyword handling for the keyword search flow.
const (
	EmptyKeywordAbort = "abort"
	EmptyKeywordAll   = "all"
)

// Config holds all runtime configuration values.
type Config struct {
	MySQL  MySQLConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Events EventsConfig
	Log    LogConfig
	Rate   RateLimitConfig

	PageSize         int      `env:"PAGE_SIZE" envDefault:"10" validate:"min=1,max=100"`
	RatingOrder      []string `env:"RATING_ORDER" envDefault:"G,PG,PG-13,R,NC-17" envSeparator:"," validate:"min=1"`
	EmptyKeywordMode string   `env:"EMPTY_KEYWORD_MODE" envDefault:"abort" validate:"oneof=abort all"`
	FavoritesFile    string   `env:"FAVORITES_FILE" envDefault:"favorites.json" validate:"required"`

	StatsPort     string        `env:"STATS_PORT" envDefault:"8081" validate:"required,numeric"`
	StatsLimit    int           `env:"STATS_LIMIT" envDefault:"5" validate:"min=1,max=50"`
	StatsCacheTTL time.Duration `env:"STATS_CACHE_TTL" envDefault:"30s" validate:"gte=0"`
}

var validate = validator.New()

// Load applies .env (if present), parses the environment and validates the
// result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: invalid settings: %w", err)
	}
	return cfg, nil
}
