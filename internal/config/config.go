package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers accepted by StorageConfig.Driver.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config aggregates runtime configuration for the portal.
type Config struct {
	App       AppConfig
	Storage   StorageConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Backend   BackendConfig
	Concierge ConciergeConfig
	Session   SessionConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// StorageConfig selects the durable key-value backend holding the session.
type StorageConfig struct {
	Driver   string
	Origin   string
	FilePath string
	// SealKey, when set, must be 32 bytes of hex; stored values are encrypted with it.
	SealKey string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// BackendConfig points at the hotel Backend API.
type BackendConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// ConciergeConfig points at the Concierge Service.
type ConciergeConfig struct {
	BaseURL        string
	TimeoutSeconds int
	MaxUploadMB    int
}

// SessionConfig tunes session restoration.
type SessionConfig struct {
	RestoreTimeoutSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
// envFiles are passed to godotenv; a missing .env is not an error.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 4))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 1))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "oasis-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "127.0.0.1"),
			Port:                  getEnv("APP_PORT", "3000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Storage: StorageConfig{
			Driver:   getEnv("STORAGE_DRIVER", StorageFile),
			Origin:   getEnv("STORAGE_ORIGIN", "http://localhost:3000"),
			FilePath: getEnv("STORAGE_FILE_PATH", "portal-storage.json"),
			SealKey:  os.Getenv("STORAGE_SEAL_KEY"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Backend: BackendConfig{
			BaseURL:        getEnv("BACKEND_BASE_URL", "http://localhost:8081"),
			TimeoutSeconds: getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 15),
		},
		Concierge: ConciergeConfig{
			BaseURL:        getEnv("CONCIERGE_BASE_URL", "http://localhost:8081"),
			TimeoutSeconds: getEnvAsInt("CONCIERGE_TIMEOUT_SECONDS", 60),
			MaxUploadMB:    getEnvAsInt("CONCIERGE_MAX_UPLOAD_MB", 10),
		},
		Session: SessionConfig{
			RestoreTimeoutSeconds: getEnvAsInt("SESSION_RESTORE_TIMEOUT_SECONDS", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that defaults cannot repair.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StorageFile, StorageRedis:
	case StoragePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("STORAGE_DRIVER=postgres requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Storage.Origin == "" {
		return fmt.Errorf("STORAGE_ORIGIN must not be empty")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the HTTP client timeout for backend calls.
func (b BackendConfig) Timeout() time.Duration {
	return seconds(b.TimeoutSeconds)
}

// Timeout returns the HTTP client timeout for concierge calls.
func (c ConciergeConfig) Timeout() time.Duration {
	return seconds(c.TimeoutSeconds)
}

// MaxUploadBytes bounds policy document uploads.
func (c ConciergeConfig) MaxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(c.MaxUploadMB) << 20
}

// RestoreTimeout bounds the startup restoration step.
func (s SessionConfig) RestoreTimeout() time.Duration {
	return seconds(s.RestoreTimeoutSeconds)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
