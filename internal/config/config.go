package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	Database    DatabaseConfig
	JWT         JWTConfig
	Scheduler   SchedulerConfig
	Archive     ArchiveConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string
	MigrationsPath  string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// SchedulerConfig holds the KPI refresh scheduler configuration
type SchedulerConfig struct {
	Interval  time.Duration
	TargetURL string
}

// ArchiveConfig holds the snapshot archive configuration
type ArchiveConfig struct {
	Enabled    bool
	Type       string
	Path       string
	MaxRetries int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PATH", "./data/eshop.db")
	viper.SetDefault("DB_MIGRATIONS_PATH", "./migrations")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 1)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 1)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("KPI_REFRESH_INTERVAL", time.Hour)
	viper.SetDefault("KPI_REFRESH_URL", "http://localhost:8081/reports/update-kpis")
	viper.SetDefault("ARCHIVE_ENABLED", false)
	viper.SetDefault("ARCHIVE_TYPE", "local")
	viper.SetDefault("ARCHIVE_PATH", "./data/archive")
	viper.SetDefault("ARCHIVE_MAX_RETRIES", 3)

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		Database: DatabaseConfig{
			Path:            viper.GetString("DB_PATH"),
			MigrationsPath:  viper.GetString("DB_MIGRATIONS_PATH"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: viper.GetDuration("DB_CONN_MAX_LIFETIME"),
			AutoMigrate:     viper.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Scheduler: SchedulerConfig{
			Interval:  viper.GetDuration("KPI_REFRESH_INTERVAL"),
			TargetURL: viper.GetString("KPI_REFRESH_URL"),
		},
		Archive: ArchiveConfig{
			Enabled:    viper.GetBool("ARCHIVE_ENABLED"),
			Type:       viper.GetString("ARCHIVE_TYPE"),
			Path:       viper.GetString("ARCHIVE_PATH"),
			MaxRetries: viper.GetInt("ARCHIVE_MAX_RETRIES"),
		},
	}

	return config, nil
}

// Validate validates the database configuration
func (c *DatabaseConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if c.MigrationsPath == "" {
		return fmt.Errorf("migrations path cannot be empty")
	}

	if c.MaxOpenConns < 1 {
		return fmt.Errorf("max open connections must be at least 1")
	}

	if c.MaxIdleConns < 1 {
		return fmt.Errorf("max idle connections must be at least 1")
	}

	return nil
}

// EnsureDirectories creates the directories the database needs
func (c *DatabaseConfig) EnsureDirectories() error {
	dbDir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	if _, err := os.Stat(c.MigrationsPath); os.IsNotExist(err) {
		return fmt.Errorf("migrations directory does not exist: %s", c.MigrationsPath)
	}

	return nil
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvAsInt gets an environment variable as integer with a fallback value
func GetEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// GetEnvAsBool gets an environment variable as boolean with a fallback value
func GetEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
