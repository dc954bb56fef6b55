package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	PDF       PDFConfig
	Dashboard DashboardConfig
	Export    ExportConfig
	Log       LogConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver           string // "postgres" | "sqlite"
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr    string
	MetricsAddr string // empty disables the /metrics listener
}

// PDFConfig holds text extraction settings
type PDFConfig struct {
	Pdftotext       string
	MaxBytes        int64
	Timeout         time.Duration
	StrictPreflight bool
}

// DashboardConfig holds dashboard settings
type DashboardConfig struct {
	PageSize int
	TimeZone string
}

// ExportConfig holds spreadsheet export settings
type ExportConfig struct {
	Dir  string
	Cron string // empty disables the scheduled export
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string // "text" | "json"
}

// LoadConfig loads configuration from environment variables, reading a
// local .env file first when one exists.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			Driver:           getEnv("DB_DRIVER", "postgres"),
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			GRPCAddr:    getEnv("GRPC_ADDR", ":8080"),
			MetricsAddr: getEnv("METRICS_ADDR", ":9090"),
		},
		PDF: PDFConfig{
			Pdftotext:       getEnv("PDFTOTEXT_BIN", "pdftotext"),
			MaxBytes:        getEnvAsInt64("PDF_MAX_BYTES", 16<<20),
			Timeout:         getEnvAsDuration("PDF_TIMEOUT", 30*time.Second),
			StrictPreflight: getEnvAsBool("PDF_STRICT_PREFLIGHT", false),
		},
		Dashboard: DashboardConfig{
			PageSize: getEnvAsInt("DASHBOARD_PAGE_SIZE", 10),
			TimeZone: getEnv("DASHBOARD_TZ", "America/Recife"),
		},
		Export: ExportConfig{
			Dir:  getEnv("EXPORT_DIR", "./exports"),
			Cron: getEnv("EXPORT_CRON", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Location resolves the dashboard time zone.
func (c DashboardConfig) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("DB_DRIVER %q is not supported", c.Database.Driver), ErrInvalidInput)
	}
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR is required", ErrInvalidInput)
	}
	if c.PDF.MaxBytes <= 0 {
		return NewAppError("CONFIG_ERROR", "PDF_MAX_BYTES must be positive", ErrInvalidInput)
	}
	if c.Dashboard.PageSize <= 0 {
		return NewAppError("CONFIG_ERROR", "DASHBOARD_PAGE_SIZE must be positive", ErrInvalidInput)
	}
	if _, err := c.Dashboard.Location(); err != nil {
		return NewAppError("CONFIG_ERROR", "DASHBOARD_TZ is invalid", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("LOG_FORMAT %q is not supported", c.Log.Format), ErrInvalidInput)
	}
	return nil
}
