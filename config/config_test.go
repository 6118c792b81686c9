package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points secrets at an empty directory and pins the environment
func isolate(t *testing.T) string {
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("CI", "false")
	t.Setenv("ENV", "test")
	return dir
}

func TestLoadConfig(t *testing.T) {
	isolate(t)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "glucose")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "glucolog_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("SUMMARY_STRICT_REFERENCES", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "glucose", cfg.DBUser)
	assert.Equal(t, "secret", cfg.DBPassword)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.StrictReferences)
	assert.True(t, cfg.AuthEnabled())
	assert.Equal(t, "host=db port=5433 user=glucose password=secret dbname=glucolog_test sslmode=disable", cfg.PostgresDSN())
}

func TestLoadConfigWithDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "glucose.db", cfg.DBPath)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.StrictReferences)
	assert.False(t, cfg.AuthEnabled())
	assert.False(t, cfg.ExportEnabled())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadConfigSecretsOverrideEnv(t *testing.T) {
	dir := isolate(t)
	t.Setenv("JWT_SECRET", "from-env")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-file\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
}

func TestEnvironmentDetection(t *testing.T) {
	isolate(t)
	t.Setenv("JWT_SECRET", "x")

	t.Setenv("CI", "true")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, CI, cfg.Environment)

	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Environment.IsProduction())

	t.Setenv("ENV", "staging")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Environment.IsDevelopment())
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment: Development,
			ServerPort:  "8000",
			DBDriver:    DriverSQLite,
			DBPath:      "glucose.db",
			Timezone:    "UTC",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad port", func(c *Config) { c.ServerPort = "http" }, "SERVER_PORT"},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, "DB_DRIVER"},
		{"sqlite without path", func(c *Config) { c.DBPath = "" }, "DB_PATH"},
		{"postgres without user", func(c *Config) { c.DBDriver = DriverPostgres; c.DBHost = "h"; c.DBPort = "1"; c.DBName = "n" }, "DB_USER"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "TIMEZONE"},
		{"negative rate", func(c *Config) { c.RateLimitPerMinute = -1 }, "RATE_LIMIT_PER_MINUTE"},
		{"schedule without bucket", func(c *Config) { c.ExportSchedule = "0 3 * * *" }, "EXPORT_SCHEDULE"},
		{"bad schedule", func(c *Config) { c.S3Bucket = "b"; c.ExportSchedule = "whenever" }, "EXPORT_SCHEDULE"},
		{"production without secret", func(c *Config) { c.Environment = Production }, "JWT_SECRET"},
	}

	require.NoError(t, ValidateConfig(valid()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			require.Error(t, err)
			assert.True(t, HasFieldError(err, tt.field), err.Error())
		})
	}
}
