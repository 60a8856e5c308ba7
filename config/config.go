// Package config loads service configuration from defaults, an optional
// TOML file and environment variables, in that order.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	domain "github.com/example/tasks-service/domain/todo"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// FileEnv names the environment variable holding the optional TOML config path.
const FileEnv = "TASKS_CONFIG"

// Config is the full service configuration.
type Config struct {
	HTTP            HTTP          `toml:"http"`
	Database        Database      `toml:"database"`
	Todo            Todo          `toml:"todo"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// HTTP configures the Fiber server.
type HTTP struct {
	Addr               string `toml:"addr"`
	CORSAllowedOrigins string `toml:"cors_allowed_origins"`
}

// Database configures the store and its connection pool.
type Database struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`

	// MaxOpenConns bounds the pool, including overflow connections.
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `toml:"conn_max_idle_time"`

	// AcquireTimeout is the deadline given to a single persistence call,
	// connection acquisition included.
	AcquireTimeout time.Duration `toml:"acquire_timeout"`

	Debug bool `toml:"debug"`
}

// Todo configures todo behaviour.
type Todo struct {
	SubtaskDeletePolicy domain.SubtaskPolicy `toml:"subtask_delete_policy"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		HTTP: HTTP{
			Addr:               ":3000",
			CORSAllowedOrigins: "*",
		},
		Database: Database{
			Driver:          DriverSQLite,
			DSN:             "file:tasks.db?_foreign_keys=on",
			MaxOpenConns:    30,
			MaxIdleConns:    20,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
			AcquireTimeout:  30 * time.Second,
		},
		Todo: Todo{
			SubtaskDeletePolicy: domain.SubtaskCascade,
		},
		ShutdownTimeout: 30 * time.Second,
	}
}

// Load builds the configuration: defaults, then the TOML file named by
// TASKS_CONFIG (if set), then environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(FileEnv); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("max_open_conns must be positive, got %d", c.Database.MaxOpenConns)
	}
	if c.Database.MaxIdleConns < 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("max_idle_conns must be between 0 and max_open_conns, got %d", c.Database.MaxIdleConns)
	}
	if c.Database.AcquireTimeout <= 0 {
		return fmt.Errorf("acquire_timeout must be positive")
	}
	if !c.Todo.SubtaskDeletePolicy.Valid() {
		return fmt.Errorf("unknown subtask delete policy %q", c.Todo.SubtaskDeletePolicy)
	}
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http addr is required")
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.CORSAllowedOrigins = getEnv("CORS_ALLOWED_ORIGINS", cfg.HTTP.CORSAllowedOrigins)

	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = getEnv("DATABASE_URL", cfg.Database.DSN)
	cfg.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)
	cfg.Database.ConnMaxLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", cfg.Database.ConnMaxLifetime)
	cfg.Database.ConnMaxIdleTime = getEnvDuration("DB_CONN_MAX_IDLE_TIME", cfg.Database.ConnMaxIdleTime)
	cfg.Database.AcquireTimeout = getEnvDuration("DB_ACQUIRE_TIMEOUT", cfg.Database.AcquireTimeout)
	cfg.Database.Debug = getEnvBool("DB_DEBUG", cfg.Database.Debug)

	cfg.Todo.SubtaskDeletePolicy = domain.SubtaskPolicy(
		getEnv("SUBTASK_DELETE_POLICY", string(cfg.Todo.SubtaskDeletePolicy)),
	)

	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as time.Duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvBool returns environment variable as bool or default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}
