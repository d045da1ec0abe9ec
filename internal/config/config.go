package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database    DatabaseConfig
	JWT         JWTConfig
	App         AppConfig
	Redis       RedisConfig
	Analytics   AnalyticsConfig
	Participant ParticipantConfig
	Storage     StorageConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	CORSOrigins []string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AnalyticsConfig tunes the submission analytics endpoints
type AnalyticsConfig struct {
	CacheTTL     time.Duration
	MaxRangeDays int
	Timezone     string
}

type ParticipantConfig struct {
	EditTTL time.Duration
}

type StorageConfig struct {
	BasePath      string
	BaseURL       string
	MaxProofSize  int64
	MaxImageBytes int // image proofs above this are re-encoded
}

func Load() (*Config, error) {
	// .env is optional; values may come from the process environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "workboard"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Redis configuration
	redisPort, err := getEnvInt("REDIS_PORT", 6379)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	config.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     redisPort,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Analytics configuration
	cacheTTL, err := getEnvDuration("ANALYTICS_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	maxRangeDays, err := getEnvInt("ANALYTICS_MAX_RANGE_DAYS", 366)
	if err != nil {
		return nil, err
	}

	config.Analytics = AnalyticsConfig{
		CacheTTL:     cacheTTL,
		MaxRangeDays: maxRangeDays,
		Timezone:     getEnv("ANALYTICS_TIMEZONE", "UTC"),
	}

	editTTL, err := getEnvDuration("PARTICIPANT_EDIT_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	config.Participant = ParticipantConfig{EditTTL: editTTL}

	maxProofSize, err := getEnvInt("STORAGE_MAX_PROOF_SIZE", 5<<20)
	if err != nil {
		return nil, err
	}

	maxImageBytes, err := getEnvInt("STORAGE_MAX_IMAGE_BYTES", 1<<20)
	if err != nil {
		return nil, err
	}

	config.Storage = StorageConfig{
		BasePath:      getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:       getEnv("STORAGE_BASE_URL", "/uploads"),
		MaxProofSize:  int64(maxProofSize),
		MaxImageBytes: maxImageBytes,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
	}
	if c.Analytics.MaxRangeDays <= 0 {
		return fmt.Errorf("ANALYTICS_MAX_RANGE_DAYS must be positive")
	}
	if _, err := time.LoadLocation(c.Analytics.Timezone); err != nil {
		return fmt.Errorf("invalid ANALYTICS_TIMEZONE: %w", err)
	}
	if c.Participant.EditTTL <= 0 {
		return fmt.Errorf("PARTICIPANT_EDIT_TTL must be positive")
	}
	if c.Storage.MaxProofSize <= 0 {
		return fmt.Errorf("STORAGE_MAX_PROOF_SIZE must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the analytics time zone
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Analytics.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
