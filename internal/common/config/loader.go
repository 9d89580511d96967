// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()

	// Base config file is optional; the service has usable defaults for a
	// local/containerized deployment.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// Enable ENV override like CUSTOMER_SERVICE_BASE_URL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideFromEnv(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Load .env from the current directory or the project root.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "transaction-notifier")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.address", ":5002")
	v.SetDefault("server.read_timeout", 30000)
	v.SetDefault("server.shutdown_timeout", 10000)

	v.SetDefault("customer_service.base_url", "http://customer-service:8000/customers")
	v.SetDefault("customer_service.timeout", 10000)

	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.use_tls", true)

	v.SetDefault("database.postgres.host", "db")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "notifications")
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.password", "postgres")
	v.SetDefault("database.postgres.sslmode", "disable")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.address", ":9100")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// overrideFromEnv applies the canonical deployment env names, which do not
// follow the viper key layout (POSTGRES_USER rather than
// DATABASE_POSTGRES_USER).
func overrideFromEnv(cfg *Config) {
	if val := os.Getenv("CUSTOMER_SERVICE_URL"); val != "" {
		cfg.CustomerService.BaseURL = val
	}

	if val := os.Getenv("SMTP_HOST"); val != "" {
		cfg.SMTP.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.SMTP.Port = port
		}
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		cfg.SMTP.User = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		cfg.SMTP.Password = val
	}
	if val := os.Getenv("SMTP_FROM"); val != "" {
		cfg.SMTP.From = val
	}

	if val := os.Getenv("POSTGRES_USER"); val != "" {
		cfg.Database.Postgres.User = val
	}
	if val := os.Getenv("POSTGRES_PASSWORD"); val != "" {
		cfg.Database.Postgres.Password = val
	}
	if val := os.Getenv("POSTGRES_HOST"); val != "" {
		cfg.Database.Postgres.Host = val
	}
	if val := os.Getenv("POSTGRES_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Database.Postgres.Port = port
		}
	}
	if val := os.Getenv("POSTGRES_DB"); val != "" {
		cfg.Database.Postgres.Database = val
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}

	// The audit sender address falls back to the SMTP account.
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}

	if cfg.CustomerService.BaseURL == "" {
		return fmt.Errorf("customer_service.base_url is required")
	}

	if cfg.SMTP.Host == "" {
		return fmt.Errorf("smtp.host is required")
	}
	if cfg.SMTP.Port <= 0 || cfg.SMTP.Port > 65535 {
		return fmt.Errorf("smtp.port must be between 1 and 65535")
	}

	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if cfg.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
