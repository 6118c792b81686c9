package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks the configuration for the environment it targets
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		add("SERVER_PORT", "must be a number")
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.DBPath == "" {
			add("DB_PATH", "is required for the sqlite driver")
		}
	case DriverPostgres:
		for field, value := range map[string]string{
			"DB_HOST": cfg.DBHost,
			"DB_PORT": cfg.DBPort,
			"DB_USER": cfg.DBUser,
			"DB_NAME": cfg.DBName,
		} {
			if value == "" {
				add(field, "is required for the postgres driver")
			}
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.RateLimitPerMinute < 0 {
		add("RATE_LIMIT_PER_MINUTE", "must not be negative")
	}

	if _, err := cfg.Location(); err != nil {
		add("TIMEZONE", err.Error())
	}

	if cfg.ExportSchedule != "" {
		if !cfg.ExportEnabled() {
			add("EXPORT_SCHEDULE", "requires S3_BUCKET_NAME")
		}
		if _, err := cron.ParseStandard(cfg.ExportSchedule); err != nil {
			add("EXPORT_SCHEDULE", err.Error())
		}
	}

	// In production and CI the API must not be left open
	if cfg.Environment == Production || cfg.Environment == CI {
		if cfg.JWTSecret == "" {
			add("JWT_SECRET", fmt.Sprintf("is required in %s", cfg.Environment))
		}
		if cfg.DBDriver == DriverPostgres && cfg.DBPassword == "" {
			add("DB_PASSWORD", fmt.Sprintf("is required in %s", cfg.Environment))
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HasFieldError reports whether err is a validation failure for field
func HasFieldError(err error, field string) bool {
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		return false
	}
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}
