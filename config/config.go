package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerHost  string
	ServerPort  string
	CORSOrigins []string

	// Database configuration. DBDriver is "postgres" or "sqlite".
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBPath        string
	MigrationsDir string

	// Redis configuration. Redis is optional: without it logout only
	// acknowledges and rate limiting is disabled.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	JWTTTL    time.Duration

	// Media storage. When S3Bucket is empty images are written to MediaDir
	// and served under MediaURL.
	MediaDir   string
	MediaURL   string
	S3Bucket   string
	S3Region   string
	S3Endpoint string

	// Recipe rules
	MinAmount      int
	MinCookingTime int
	PageSize       int

	// Shopping list export
	PDFFontPath string

	// Rate limiting of recipe creation, per user per hour
	RecipeCreateLimit int

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig builds a Config from the environment, a .env file when present,
// and Docker secrets for sensitive values.
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	env := GetEnvironment()
	cfg := &Config{
		Env:           env,
		ServerHost:    getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		DBDriver:      getEnv("DB_DRIVER", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getSecret("db_user", "DB_USER", "postgres"),
		DBPassword:    getSecret("db_password", "DB_PASSWORD", ""),
		DBName:        getEnv("DB_NAME", "foodgram"),
		DBSSLMode:     getEnv("DB_SSL_MODE", "disable"),
		DBPath:        getEnv("DB_PATH", "foodgram.db"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getSecret("redis_password", "REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisURL:      getSecret("redis_url", "REDIS_URL", ""),

		JWTSecret: getSecret("jwt_secret", "JWT_SECRET", ""),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		MediaDir:   getEnv("MEDIA_DIR", "media"),
		MediaURL:   getEnv("MEDIA_URL", "/media/"),
		S3Bucket:   getEnv("S3_BUCKET_NAME", ""),
		S3Region:   getEnv("AWS_REGION", ""),
		S3Endpoint: getEnv("S3_ENDPOINT", ""),

		MinAmount:      getEnvInt("MIN_AMOUNT", 1),
		MinCookingTime: getEnvInt("MIN_COOKING_TIME", 1),
		PageSize:       getEnvInt("PAGE_SIZE", 6),

		PDFFontPath: getEnv("PDF_FONT_PATH", ""),

		RecipeCreateLimit: getEnvInt("RECIPE_CREATE_LIMIT", 30),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", defaultLogFormat(env)),
	}

	if cfg.JWTSecret == "" && env != Production {
		cfg.JWTSecret = "insecure-dev-secret"
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func defaultLogFormat(env Environment) string {
	if env == Development {
		return "console"
	}
	return "json"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// getSecret prefers the environment variable and falls back to a Docker secret.
func getSecret(secret, key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := readSecret(secret); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
