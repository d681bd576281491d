package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the configuration against the rules of its environment.
func ValidateConfig(cfg *Config) error {
	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			add("DB_HOST", "is required for postgres")
		}
		if cfg.DBName == "" {
			add("DB_NAME", "is required for postgres")
		}
	case "sqlite":
		if cfg.DBPath == "" {
			add("DB_PATH", "is required for sqlite")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.MinAmount < 1 {
		add("MIN_AMOUNT", "must be at least 1")
	}
	if cfg.MinCookingTime < 1 {
		add("MIN_COOKING_TIME", "must be at least 1")
	}
	if cfg.PageSize < 1 || cfg.PageSize > 100 {
		add("PAGE_SIZE", "must be between 1 and 100")
	}
	if cfg.JWTTTL <= 0 {
		add("JWT_TTL", "must be positive")
	}

	// Sensitive values must come from secrets in production-like environments.
	if cfg.Env == Production || cfg.Env == CI {
		if cfg.JWTSecret == "" {
			add("jwt_secret", "secret is required")
		}
		if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
			add("db_password", "secret is required")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "\n"))
	}
	return nil
}
