package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	Upload  UploadConfig
	Minio   MinioConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
}

// StorageConfig selects and sizes the storage backend
type StorageConfig struct {
	Type     string
	BasePath string
	MaxSize  uint64
}

// UploadConfig bounds a single upload request
type UploadConfig struct {
	MaxFileSize  int64
	MaxFileCount int
}

// MinioConfig holds connection settings for the minio backend
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

const (
	defaultMaxFileSize    = 16 * 1024 * 1024 * 1024   // 16 GiB per file
	defaultMaxFileCount   = 10                        // files per upload request
	defaultMaxStorageSize = 1024 * 1024 * 1024 * 1024 // 1 TiB reported capacity
)

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "*"),
	}

	// Storage configuration
	maxStorageSize, err := strconv.ParseUint(getEnv("MAX_STORAGE_SIZE_BYTES", strconv.Itoa(defaultMaxStorageSize)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_STORAGE_SIZE_BYTES: %w", err)
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		MaxSize:  maxStorageSize,
	}

	// Upload limits
	maxFileSize, err := strconv.ParseInt(getEnv("MAX_FILE_SIZE_BYTES", strconv.Itoa(defaultMaxFileSize)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_FILE_SIZE_BYTES: %w", err)
	}

	maxFileCount, err := strconv.Atoi(getEnv("MAX_FILE_COUNT", strconv.Itoa(defaultMaxFileCount)))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_FILE_COUNT: %w", err)
	}

	config.Upload = UploadConfig{
		MaxFileSize:  maxFileSize,
		MaxFileCount: maxFileCount,
	}

	// Minio configuration
	useSSL, err := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid MINIO_USE_SSL: %w", err)
	}

	config.Minio = MinioConfig{
		Endpoint:  getEnv("MINIO_ENDPOINT", ""),
		AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		SecretKey: getEnv("MINIO_SECRET_KEY", ""),
		Bucket:    getEnv("MINIO_BUCKET", "filecrate"),
		UseSSL:    useSSL,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE_BYTES must be positive")
	}
	if c.Upload.MaxFileCount <= 0 {
		return fmt.Errorf("MAX_FILE_COUNT must be positive")
	}

	switch c.Storage.Type {
	case "local":
		if c.Storage.BasePath == "" {
			return fmt.Errorf("STORAGE_BASE_PATH is required")
		}
	case "minio":
		if c.Minio.Endpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required")
		}
		if c.Minio.AccessKey == "" {
			return fmt.Errorf("MINIO_ACCESS_KEY is required")
		}
		if c.Minio.SecretKey == "" {
			return fmt.Errorf("MINIO_SECRET_KEY is required")
		}
		if c.Minio.Bucket == "" {
			return fmt.Errorf("MINIO_BUCKET is required")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE: %s", c.Storage.Type)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	return strings.Split(value, ",")
}
