package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Webhook  WebhookConfig
	Security SecurityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// WebhookConfig holds the provider callback and reconciliation settings
type WebhookConfig struct {
	Secret           string
	ProviderBaseURL  string
	ProviderAPIKey   string
	ProviderTimeout  time.Duration
	MaxRetries       int
	InitialDelay     time.Duration
	ExhaustionPolicy string
	RateLimitTokens  int
	RateLimitWindow  time.Duration
}

// SecurityConfig holds security encryption keys and the operator credential
type SecurityConfig struct {
	SessionEncryptionKey string
	AdminUsername        string
	AdminPasswordHash    string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "buffzone"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRY", 12*time.Hour),
		},
		Webhook: WebhookConfig{
			Secret:           getEnv("WEBHOOK_SECRET", "change-this-in-production"),
			ProviderBaseURL:  getEnv("PROVIDER_BASE_URL", "https://api.provider.example"),
			ProviderAPIKey:   getEnv("PROVIDER_API_KEY", ""),
			ProviderTimeout:  getEnvAsDuration("PROVIDER_TIMEOUT", 10*time.Second),
			MaxRetries:       getEnvAsInt("WEBHOOK_MAX_RETRIES", 5),
			InitialDelay:     getEnvAsDuration("WEBHOOK_INITIAL_DELAY", time.Second),
			ExhaustionPolicy: getEnv("WEBHOOK_EXHAUSTION_POLICY", "keep-pending"),
			RateLimitTokens:  getEnvAsInt("WEBHOOK_RATE_LIMIT_TOKENS", 60),
			RateLimitWindow:  getEnvAsDuration("WEBHOOK_RATE_LIMIT_WINDOW", time.Minute),
		},
		Security: SecurityConfig{
			SessionEncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
			AdminUsername:        getEnv("ADMIN_USERNAME", "admin"),
			AdminPasswordHash:    getEnv("ADMIN_PASSWORD_HASH", ""),
		},
	}
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
