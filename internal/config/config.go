package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App    AppConfig
	Mongo  MongoConfig
	Auth   AuthConfig
	Logger LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	StaticDir             string
	CORSOrigins           string
}

// MongoConfig holds document-store connection values.
type MongoConfig struct {
	URI            string
	Database       string
	TimeoutSeconds int
}

// AuthConfig defines authentication parameters. AdminUsername,
// AdminPasswordHash and JWTSecret carry no defaults: leaving them unset is a
// deployment defect the auth flow reports as a configuration error.
type AuthConfig struct {
	AdminUsername     string
	AdminPasswordHash string
	JWTSecret         string
	TokenTTLDays      int
	BcryptCost        int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "blog-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "7000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			StaticDir:             getEnv("STATIC_DIR", "./public"),
			CORSOrigins:           getEnv("CORS_ORIGINS", "http://localhost:5173"),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
			Database:       getEnv("MONGO_DATABASE", "blog"),
			TimeoutSeconds: getEnvAsInt("MONGO_TIMEOUT_SECONDS", 5),
		},
		Auth: AuthConfig{
			AdminUsername:     os.Getenv("ADMIN_USERNAME"),
			AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			JWTSecret:         os.Getenv("JWT_SECRET"),
			TokenTTLDays:      getEnvAsInt("AUTH_TOKEN_TTL_DAYS", 7),
			BcryptCost:        getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.Mongo.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("MONGO_TIMEOUT_SECONDS must be positive")
	}

	return cfg, nil
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

// IsDevelopment reports whether the service runs in development mode, which
// permits error details in responses.
func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development"
}

// Timeout returns the bounded connection/server-selection timeout.
func (m MongoConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
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
