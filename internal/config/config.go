package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"enrolldash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Analysis AnalysisConfig
	Products ProductConfig
	Charts   ChartConfig
	Uploads  UploadConfig
}

// DatabaseConfig holds database connection settings. An empty URL keeps run history in memory.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	APIPort string
	GinMode string
}

// AnalysisConfig holds enrollment analysis settings
type AnalysisConfig struct {
	Term     string
	HeadRows int
}

// ProductConfig holds the product sales variant settings
type ProductConfig struct {
	CodeColumn  string
	SalesColumn string
	Codes       []string
	TopN        int
}

// ChartConfig holds rendered chart dimensions
type ChartConfig struct {
	Width  int
	Height int
}

// UploadConfig holds upload limits and archiving
type UploadConfig struct {
	MaxBytes   int64
	ArchiveDir string
}

// DefaultProductCodes is the fixed list of product codes tracked by the sales view
var DefaultProductCodes = []string{
	"P001", "P002", "P003", "P004", "P005",
	"P006", "P007", "P008", "P009", "P010",
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: loadDatabaseConfig(),
		Server:   loadServerConfig(),
		Analysis: loadAnalysisConfig(),
		Products: loadProductConfig(),
		Charts:   loadChartConfig(),
		Uploads:  loadUploadConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{MaxOpenConns: 5, ConnMaxLifetime: 30 * time.Minute},
		Server:   ServerConfig{Port: "8080", APIPort: "8081", GinMode: "release"},
		Analysis: AnalysisConfig{Term: "Spring", HeadRows: 5},
		Products: ProductConfig{
			CodeColumn:  "Product Code",
			SalesColumn: "Sales",
			Codes:       append([]string(nil), DefaultProductCodes...),
			TopN:        10,
		},
		Charts:  ChartConfig{Width: 900, Height: 480},
		Uploads: UploadConfig{MaxBytes: 50 * 1024 * 1024},
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:             getEnvOrDefault("DATABASE_URL", ""),
		MaxOpenConns:    getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 5),
		ConnMaxLifetime: getEnvDurationOrDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		APIPort: getEnvOrDefault("API_PORT", "8081"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Term:     getEnvOrDefault("ENROLLMENT_TERM", "Spring"),
		HeadRows: getEnvIntOrDefault("HEAD_ROWS", 5),
	}
}

func loadProductConfig() ProductConfig {
	return ProductConfig{
		CodeColumn:  getEnvOrDefault("PRODUCT_COLUMN", "Product Code"),
		SalesColumn: getEnvOrDefault("SALES_COLUMN", "Sales"),
		Codes:       getEnvListOrDefault("PRODUCT_CODES", DefaultProductCodes),
		TopN:        getEnvIntOrDefault("PRODUCT_TOP_N", 10),
	}
}

func loadChartConfig() ChartConfig {
	return ChartConfig{
		Width:  getEnvIntOrDefault("CHART_WIDTH", 900),
		Height: getEnvIntOrDefault("CHART_HEIGHT", 480),
	}
}

func loadUploadConfig() UploadConfig {
	return UploadConfig{
		MaxBytes:   int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 50)) * 1024 * 1024,
		ArchiveDir: getEnvOrDefault("ARCHIVE_DIR", ""),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Analysis.Term == "" {
		return errors.ConfigInvalid("ENROLLMENT_TERM must not be empty")
	}
	if config.Analysis.HeadRows < 1 {
		return errors.ConfigInvalid("HEAD_ROWS must be at least 1")
	}
	if len(config.Products.Codes) == 0 {
		return errors.ConfigInvalid("PRODUCT_CODES must list at least one code")
	}
	if config.Charts.Width < 100 || config.Charts.Height < 100 {
		return errors.ConfigInvalid("chart dimensions must be at least 100x100")
	}
	if config.Uploads.MaxBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
