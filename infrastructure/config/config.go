package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
	SessionStoreMemory   = "memory"

	UploadStorageDisk = "disk"
	UploadStorageS3   = "s3"
)

// Config is read once at startup and never mutated afterwards.
type Config struct {
	ServerPort  string
	ServerHost  string
	Environment string
	ClientURLs  []string

	DatabaseURL   string
	DBAutoMigrate bool

	JWTAccessSecret  string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	RefreshTokenSalt string

	RefreshCookieMaxAge time.Duration
	CookieSecure        bool

	SessionStore string
	RedisURL     string

	UploadStorage   string
	UploadDir       string
	UploadMaxBytes  int64
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string

	LogLevel  string
	LogFormat string

	MetricsEnabled bool
}

var (
	ErrMissingAccessSecret  = errors.New("JWT_ACCESS_SECRET is required")
	ErrMissingRefreshSecret = errors.New("JWT_REFRESH_SECRET is required")
	ErrSameJWTSecrets       = errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	ErrInvalidTokenTTL      = errors.New("invalid token TTL format")
	ErrInvalidSessionStore  = errors.New("SESSION_STORE must be one of postgres, redis, memory")
	ErrMissingDatabaseURL   = errors.New("DATABASE_URL is required when SESSION_STORE=postgres")
	ErrInvalidUploadStorage = errors.New("UPLOAD_STORAGE must be disk or s3")
	ErrMissingS3Bucket      = errors.New("S3_BUCKET is required when UPLOAD_STORAGE=s3")
)

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:       getEnvOrDefault("PORT", "5000"),
		ServerHost:       os.Getenv("SERVER_HOST"),
		Environment:      getEnvOrDefault("ENV", "development"),
		ClientURLs:       parseList(getEnvOrDefault("CLIENT_URL", "http://localhost:3000")),
		DatabaseURL:      getEnvOrDefault("DATABASE_URL", os.Getenv("DB_URL")),
		DBAutoMigrate:    getEnvOrDefaultBool("DB_AUTO_MIGRATE", true),
		JWTAccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		RefreshTokenSalt: os.Getenv("REFRESH_TOKEN_SALT"),
		CookieSecure:     getEnvOrDefaultBool("COOKIE_SECURE", false),
		RedisURL:         getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		UploadStorage:    strings.ToLower(getEnvOrDefault("UPLOAD_STORAGE", UploadStorageDisk)),
		UploadDir:        getEnvOrDefault("UPLOAD_DIR", "static"),
		UploadMaxBytes:   getEnvOrDefaultInt64("UPLOAD_MAX_BYTES", 10<<20),
		S3Bucket:         os.Getenv("S3_BUCKET"),
		S3Region:         getEnvOrDefault("S3_REGION", "us-east-1"),
		S3Endpoint:       os.Getenv("S3_ENDPOINT"),
		S3AccessKey:      os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:      os.Getenv("S3_SECRET_KEY"),
		S3PublicBaseURL:  strings.TrimRight(os.Getenv("S3_PUBLIC_BASE_URL"), "/"),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        getEnvOrDefault("LOG_FORMAT", "json"),
		MetricsEnabled:   getEnvOrDefaultBool("METRICS_ENABLED", true),
	}

	// Without a database the service falls back to in-memory stores.
	defaultStore := SessionStorePostgres
	if cfg.DatabaseURL == "" {
		defaultStore = SessionStoreMemory
	}
	cfg.SessionStore = strings.ToLower(getEnvOrDefault("SESSION_STORE", defaultStore))

	var err error
	if cfg.AccessTokenTTL, err = parseTokenTTL(getEnvOrDefault("JWT_ACCESS_TOKEN_TTL", "2h")); err != nil {
		return nil, ErrInvalidTokenTTL
	}
	if cfg.RefreshTokenTTL, err = parseTokenTTL(getEnvOrDefault("JWT_REFRESH_TOKEN_TTL", "360h")); err != nil {
		return nil, ErrInvalidTokenTTL
	}
	if cfg.RefreshCookieMaxAge, err = parseTokenTTL(getEnvOrDefault("REFRESH_COOKIE_MAX_AGE", "720h")); err != nil {
		return nil, ErrInvalidTokenTTL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.JWTAccessSecret == "" {
		return ErrMissingAccessSecret
	}
	if c.JWTRefreshSecret == "" {
		return ErrMissingRefreshSecret
	}
	if c.JWTAccessSecret == c.JWTRefreshSecret {
		return ErrSameJWTSecrets
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return ErrInvalidTokenTTL
	}

	switch c.SessionStore {
	case SessionStorePostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	case SessionStoreRedis, SessionStoreMemory:
	default:
		return ErrInvalidSessionStore
	}

	switch c.UploadStorage {
	case UploadStorageDisk:
	case UploadStorageS3:
		if c.S3Bucket == "" {
			return ErrMissingS3Bucket
		}
	default:
		return ErrInvalidUploadStorage
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

// parseTokenTTL interprets plain numbers as seconds, anything else as a Go
// duration.
func parseTokenTTL(value string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(value)
}

func parseList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
