package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/MarvinNL046/vindelektricien-sub000/pkg/secrets"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Typesense TypesenseConfig
	Reference ReferenceConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	OTEL      OTELConfig
	Log       LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	// TrustedProxies lists the addresses or CIDRs whose X-Forwarded-For
	// and X-Real-IP headers are believed
	TrustedProxies []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Database      string
	SSLMode       string
	MaxOpenConns  int
	MaxIdleConns  int
	RunMigrations bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Enabled  bool
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL        string
	APIKey     string
	Collection string
	Enabled    bool
}

// ReferenceConfig points at the region and facility type JSON files.
// An empty Dir uses the embedded defaults.
type ReferenceConfig struct {
	Dir string
}

// CacheConfig holds response and facility cache TTLs
type CacheConfig struct {
	FacilityTTL time.Duration
	ListTTL     time.Duration
	ResponseTTL time.Duration
	WarmOnStart bool
	// WarmInterval repeats the warming; zero warms once
	WarmInterval time.Duration
}

// RateLimitConfig throttles the public write endpoints per client
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string
	Environment string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is applied first; variables already set win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	// Vault secrets fill in credentials before the environment is read
	if vault := secrets.VaultConfigFromEnv(); vault.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), vault.Timeout+time.Second)
		defer cancel()
		if _, err := secrets.Apply(ctx, vault); err != nil {
			return nil, fmt.Errorf("failed to load vault secrets: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins:  getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			TrustedProxies:  getEnvAsSlice("TRUSTED_PROXIES", nil),
		},
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnvAsInt("DB_PORT", 5432),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", ""),
			Database:      getEnv("DB_NAME", "facility_directory"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:  getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:  getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			RunMigrations: getEnvAsBool("DB_RUN_MIGRATIONS", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},
		Typesense: TypesenseConfig{
			URL:        getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey:     getEnv("TYPESENSE_API_KEY", "xyz"),
			Collection: getEnv("TYPESENSE_COLLECTION", "facilities"),
			Enabled:    getEnvAsBool("TYPESENSE_ENABLED", false),
		},
		Reference: ReferenceConfig{
			Dir: getEnv("REFERENCE_DATA_DIR", ""),
		},
		Cache: CacheConfig{
			FacilityTTL:  getEnvAsDuration("CACHE_FACILITY_TTL", 10*time.Minute),
			ListTTL:      getEnvAsDuration("CACHE_LIST_TTL", 5*time.Minute),
			ResponseTTL:  getEnvAsDuration("CACHE_RESPONSE_TTL", 5*time.Minute),
			WarmOnStart:  getEnvAsBool("CACHE_WARM_ON_START", true),
			WarmInterval: getEnvAsDuration("CACHE_WARM_INTERVAL", 0),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 10),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 5),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "facility-directory"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid SERVER_PORT: %d", cfg.Server.Port)
	}
	if cfg.RateLimit.RequestsPerMinute <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %d", cfg.RateLimit.RequestsPerMinute)
	}

	return cfg, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Addr returns the HTTP listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
