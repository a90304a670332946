package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/docker/go-units"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageDriverLocal = "local"
	StorageDriverMinIO = "minio"
	StorageDriverS3    = "s3"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// LoggingConfig selects the slog handler and minimum level.
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// StorageConfig selects where uploaded client files live and how large they may be.
type StorageConfig struct {
	Driver      string
	UploadsRoot string
	// MaxFileSize is a human-readable size such as "5MB", parsed with binary multiples.
	MaxFileSize string
}

// MaxFileSizeBytes returns MaxFileSize in bytes. Validate must have succeeded first.
func (c StorageConfig) MaxFileSizeBytes() int64 {
	n, _ := units.RAMInBytes(c.MaxFileSize)
	return n
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Config holds settings for the AWS SDK backed driver. Endpoint is optional and
// allows S3-compatible services such as R2.
type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port         string
	BodyLimit    string
	FrontendURL  string
	RenderURL    string
	SeedDemoData bool
	Database     DatabaseConfig
	Logging      LoggingConfig
	Storage      StorageConfig
	MinIO        MinIOConfig
	S3           S3Config
}

// BodyLimitBytes returns the Fiber request body limit in bytes.
func (c *AppConfig) BodyLimitBytes() int {
	n, _ := units.RAMInBytes(c.BodyLimit)
	return int(n)
}

// AllowedOrigins lists the CORS origins: the local frontend plus the configured
// frontend and deployment URLs when set.
func (c *AppConfig) AllowedOrigins() []string {
	origins := []string{"http://localhost:3000"}
	for _, o := range []string{c.FrontendURL, c.RenderURL} {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" && !slices.Contains(origins, o) {
			origins = append(origins, o)
		}
	}
	return origins
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:         getEnv("PORT", "8080"),
		BodyLimit:    getEnv("BODY_LIMIT", "16MB"),
		FrontendURL:  getEnv("FRONTEND_URL", ""),
		RenderURL:    getEnv("RENDER_EXTERNAL_URL", ""),
		SeedDemoData: getEnvBool("SEED_DEMO_DATA", false),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Storage: StorageConfig{
			Driver:      getEnv("STORAGE_DRIVER", StorageDriverLocal),
			UploadsRoot: getEnv("UPLOADS_ROOT", "uploads"),
			MaxFileSize: getEnv("MAX_FILE_SIZE", "5MB"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		S3: S3Config{
			Region:    getEnv("S3_REGION", "us-east-1"),
			Bucket:    getEnv("S3_BUCKET", ""),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
	}
}

// Validate checks values that Load cannot default safely.
func (c *AppConfig) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverLocal, StorageDriverMinIO, StorageDriverS3:
	default:
		return fmt.Errorf("invalid storage driver %q (must be local, minio, or s3)", c.Storage.Driver)
	}
	if c.Storage.Driver == StorageDriverLocal && c.Storage.UploadsRoot == "" {
		return fmt.Errorf("uploads root is required for local storage")
	}

	size, err := units.RAMInBytes(c.Storage.MaxFileSize)
	if err != nil {
		return fmt.Errorf("invalid max file size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max file size must be positive")
	}

	limit, err := units.RAMInBytes(c.BodyLimit)
	if err != nil {
		return fmt.Errorf("invalid body limit: %w", err)
	}
	if limit < 2*size {
		return fmt.Errorf("body limit %s cannot hold two files of %s", c.BodyLimit, c.Storage.MaxFileSize)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format %q", c.Logging.Format)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
