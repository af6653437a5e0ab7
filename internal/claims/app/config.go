package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

type Config struct {
	Env                 string        `mapstructure:"ENV"`                   // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        `mapstructure:"LOG_LEVEL"`             // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        `mapstructure:"LOG_FORMAT"`            // Log format (json, text) (default: json)
	Port                int           `mapstructure:"PORT"`                  // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration `mapstructure:"SHUTDOWN_GRACE_PERIOD"` // Graceful shutdown timeout (default: 10s)

	DatabaseDriver string        `mapstructure:"DATABASE_DRIVER"`      // sqlite or postgres (default: sqlite)
	DatabaseFile   string        `mapstructure:"DATABASE_FILE"`        // SQLite file (default: ./claims.db)
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`         // Postgres DSN, required for postgres
	DBMaxOpenConns int           `mapstructure:"DB_MAX_OPEN_CONNS"`    // Postgres pool size (default: 10)
	DBMaxIdleConns int           `mapstructure:"DB_MAX_IDLE_CONNS"`    // (default: 5)
	DBConnLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME"` // (default: 30m)

	HookSecret  string        `mapstructure:"HOOK_SECRET"`  // Required: "v1,whsec_..." secret shared with the identity provider
	JWTSecret   string        `mapstructure:"JWT_SECRET"`   // Optional: enables GET /v1/me
	JWTAudience string        `mapstructure:"JWT_AUDIENCE"` // Comma separated (default: authenticated)
	JWTIssuer   string        `mapstructure:"JWT_ISSUER"`   // Optional: e.g. https://<project>.supabase.co/auth/v1
	JWTLeeway   time.Duration `mapstructure:"JWT_LEEWAY"`   // Clock skew allowance (default: 30s)

	CacheBackend  string        `mapstructure:"CACHE_BACKEND"`  // memory, redis or none (default: memory)
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`      // (default: 15m)
	CacheCapacity uint64        `mapstructure:"CACHE_CAPACITY"` // Memory cache entries (default: 10000)
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`     // Required for redis
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	RedisPrefix   string        `mapstructure:"REDIS_PREFIX"` // (default: docqa)

	BackfillInterval  time.Duration `mapstructure:"BACKFILL_INTERVAL"`   // 0 disables the worker (default: 10m)
	BackfillBatchSize int           `mapstructure:"BACKFILL_BATCH_SIZE"` // (default: 100)

	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"` // Optional: OTLP gRPC collector, e.g. http://localhost:4317
	OTLPInsecure bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"` // Skip TLS even for https endpoints
}

// LoadConfig reads .env when present, then the environment. Environment
// variables win over .env.
func LoadConfig() (Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // missing .env is fine

	v.AutomaticEnv()

	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("PORT", 8080)
	v.SetDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second)

	v.SetDefault("DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_FILE", "claims.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute)

	v.SetDefault("HOOK_SECRET", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_AUDIENCE", "authenticated")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("JWT_LEEWAY", 30*time.Second)

	v.SetDefault("CACHE_BACKEND", CacheMemory)
	v.SetDefault("CACHE_TTL", 15*time.Minute)
	v.SetDefault("CACHE_CAPACITY", 10000)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "docqa")

	v.SetDefault("BACKFILL_INTERVAL", 10*time.Minute)
	v.SetDefault("BACKFILL_BATCH_SIZE", 100)

	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.HookSecret == "" {
		return errors.New("config: HOOK_SECRET must be set")
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			return errors.New("config: DATABASE_FILE must be set for sqlite")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL must be set for postgres")
		}
	default:
		return fmt.Errorf("config: unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	switch c.CacheBackend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.RedisAddr == "" {
			return errors.New("config: REDIS_ADDR must be set for redis cache")
		}
	default:
		return fmt.Errorf("config: unknown CACHE_BACKEND %q", c.CacheBackend)
	}

	if c.BackfillInterval < 0 {
		return errors.New("config: BACKFILL_INTERVAL must not be negative")
	}
	return nil
}

// Audiences splits JWTAudience on commas.
func (c Config) Audiences() []string {
	var out []string
	for _, a := range strings.Split(c.JWTAudience, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
