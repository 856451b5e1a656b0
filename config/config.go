package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultUserAgent        = "romhack-catalog/dev (unknown-user)"
	defaultCheckTimeout     = 10 * time.Second
	defaultCheckConcurrency = 8
)

// Config holds all configuration for the application.
// Values are loaded by Viper from a config file and/or environment variables.
type Config struct {
	DataDir          string        `mapstructure:"CATALOG_DATA_DIR"`
	CatalogFile      string        `mapstructure:"CATALOG_FILE"` // optional JSON snapshot replacing the embedded one
	UserAgent        string        `mapstructure:"USERAGENT"`
	CheckTimeout     time.Duration `mapstructure:"CHECK_TIMEOUT"`
	CheckConcurrency int           `mapstructure:"CHECK_CONCURRENCY"`
	DatabasePath     string        `mapstructure:"-"` // derived from DataDir
	CoversDir        string        `mapstructure:"-"` // derived from DataDir
}

// envKeys are bound explicitly so Unmarshal sees them even without a .env file.
var envKeys = []string{
	"CATALOG_DATA_DIR",
	"CATALOG_FILE",
	"USERAGENT",
	"CHECK_TIMEOUT",
	"CHECK_CONCURRENCY",
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.GetViper()
	v.AddConfigPath(path)   // Path to look for the config file in
	v.SetConfigName(".env") // Name of config file (without extension)
	v.SetConfigType("env")  // REQUIRED if the config file does not have the extension in the name

	vipErr := v.ReadInConfig()
	if _, ok := vipErr.(viper.ConfigFileNotFoundError); ok {
		slog.Info("Config file (.env) not found, relying on environment variables.")
	} else if vipErr != nil {
		return Config{}, fmt.Errorf("fatal error config file: %w", vipErr)
	}

	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key, key); err != nil {
			slog.Warn("Unable to bind env var", "key", key, "error", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %w", err)
	}

	processConfigDefaults(&config)

	if err := validateAndEnsureDirectories(&config); err != nil {
		return Config{}, err
	}

	return config, nil
}

// processConfigDefaults fills in anything left unset.
func processConfigDefaults(config *Config) {
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
		slog.Warn("USERAGENT not set in config or environment, using default.")
	}
	if config.CheckTimeout <= 0 {
		config.CheckTimeout = defaultCheckTimeout
	}
	if config.CheckConcurrency <= 0 {
		config.CheckConcurrency = defaultCheckConcurrency
	}
}

// validateAndEnsureDirectories checks the data dir, creates it and its
// subdirectories, and derives the database and covers paths.
func validateAndEnsureDirectories(config *Config) error {
	if config.DataDir == "" {
		slog.Error("CATALOG_DATA_DIR is not set")
		return fmt.Errorf("CATALOG_DATA_DIR is required")
	}

	if config.CatalogFile != "" {
		if _, err := os.Stat(config.CatalogFile); err != nil {
			return fmt.Errorf("CATALOG_FILE %s: %w", config.CatalogFile, err)
		}
	}

	config.CoversDir = filepath.Join(config.DataDir, "covers")
	for _, dir := range []string{config.DataDir, config.CoversDir} {
		if err := ensureDir(dir); err != nil {
			return err
		}
	}

	config.DatabasePath = filepath.Join(config.DataDir, "catalog.db")
	return nil
}

func ensureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		slog.Info("Directory does not exist, creating it", "path", dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			slog.Error("Failed to create directory", "path", dir, "error", err)
			return err
		}
	} else if err != nil {
		slog.Error("Failed to check directory", "path", dir, "error", err)
		return err
	}
	return nil
}
