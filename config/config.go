package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost  string
	ServerPort  string
	StaticDir   string
	CORSOrigins []string
	LogLevel    string

	// Database configuration
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration, rate limiting is off without a URL
	RedisURL           string
	RedisPassword      string
	RateLimitPerMinute int

	// JWT configuration, auth is off without a secret
	JWTSecret string

	// Reporting
	Timezone         string
	StrictReferences bool

	// Export configuration
	S3Bucket       string
	AWSRegion      string
	ExportSchedule string
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// LoadConfig reads configuration from the environment, with Docker secrets
// taking precedence for sensitive values.
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Environment:        detectEnvironment(v),
		ServerHost:         v.GetString("SERVER_HOST"),
		ServerPort:         v.GetString("SERVER_PORT"),
		StaticDir:          v.GetString("STATIC_DIR"),
		CORSOrigins:        splitList(v.GetString("CORS_ORIGINS")),
		LogLevel:           v.GetString("LOG_LEVEL"),
		DBDriver:           strings.ToLower(v.GetString("DB_DRIVER")),
		DBPath:             v.GetString("DB_PATH"),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetString("DB_PORT"),
		DBUser:             v.GetString("DB_USER"),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBName:             v.GetString("DB_NAME"),
		DBSSLMode:          v.GetString("DB_SSL_MODE"),
		RedisURL:           v.GetString("REDIS_URL"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		Timezone:           v.GetString("TIMEZONE"),
		StrictReferences:   v.GetBool("SUMMARY_STRICT_REFERENCES"),
		S3Bucket:           v.GetString("S3_BUCKET_NAME"),
		AWSRegion:          v.GetString("AWS_REGION"),
		ExportSchedule:     v.GetString("EXPORT_SCHEDULE"),
	}

	// Docker secrets win over environment variables
	if s := readSecret("db_password"); s != "" {
		cfg.DBPassword = s
	}
	if s := readSecret("jwt_secret"); s != "" {
		cfg.JWTSecret = s
	}
	if s := readSecret("redis_password"); s != "" {
		cfg.RedisPassword = s
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8000")
	v.SetDefault("STATIC_DIR", "static")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_PATH", "glucose.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "glucolog")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("SUMMARY_STRICT_REFERENCES", false)
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// Location resolves the zone used to turn the server clock into naive time.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// PostgresDSN builds the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// AuthEnabled reports whether API routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// ExportEnabled reports whether an S3 bucket is configured.
func (c *Config) ExportEnabled() bool {
	return c.S3Bucket != ""
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
