package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Redis Config
const REDIS_DB_ADDRESS = "redis:6379"
const REDIS_DB_PASSWORD = ""
const REDIS_DB = 0

// Dataset config
const DATASET_SOURCE_FILE = "file"
const DATASET_SOURCE_REDIS = "redis"
const DATASET_REFRESH_INTERVAL_MINUTES = 30

// Server config
const HTTP_ADDRESS = ":8080"
const SHUTDOWN_TIMEOUT_SECONDS = 5

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const DATASET_RESOURCE = "hour_df_clean.csv"
const LOGO_RESOURCE = "sharing.svg"

// AppConfig holds the runtime settings, read from the environment with the
// constants above as defaults.
type AppConfig struct {
	Env string

	HTTPAddr        string
	ShutdownTimeout time.Duration

	DatasetPath            string
	DatasetSheet           string // only used for .xlsx datasets, first sheet when empty
	DatasetSource          string
	DatasetWatch           bool
	DatasetRefreshInterval time.Duration

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	ResourcesDir string
}

// Load reads configuration from the environment (and a .env file when present).
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("[Config] No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Env:           getenvDefault("ENV", "dev"),
		HTTPAddr:      getenvDefault("HTTP_ADDR", HTTP_ADDRESS),
		DatasetPath:   getenvDefault("DATASET_PATH", GetResourcePath(DATASET_RESOURCE)),
		DatasetSheet:  os.Getenv("DATASET_SHEET"),
		DatasetSource: getenvDefault("DATASET_SOURCE", DATASET_SOURCE_FILE),
		RedisAddress:  getenvDefault("REDIS_ADDRESS", REDIS_DB_ADDRESS),
		RedisPassword: getenvDefault("REDIS_PASSWORD", REDIS_DB_PASSWORD),
		RedisDB:       getenvInt("REDIS_DB", REDIS_DB),
		ResourcesDir:  filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX),
	}

	shutdownTimeout, err := time.ParseDuration(getenvDefault("SHUTDOWN_TIMEOUT", fmt.Sprintf("%ds", SHUTDOWN_TIMEOUT_SECONDS)))
	if err != nil || shutdownTimeout <= 0 {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %v", err)
	}
	cfg.ShutdownTimeout = shutdownTimeout

	refresh, err := time.ParseDuration(getenvDefault("DATASET_REFRESH_INTERVAL", fmt.Sprintf("%dm", DATASET_REFRESH_INTERVAL_MINUTES)))
	if err != nil {
		return nil, fmt.Errorf("invalid DATASET_REFRESH_INTERVAL: %w", err)
	}
	cfg.DatasetRefreshInterval = refresh

	if v := os.Getenv("DATASET_WATCH"); v != "" {
		watch, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DATASET_WATCH: %w", err)
		}
		cfg.DatasetWatch = watch
	}

	switch cfg.DatasetSource {
	case DATASET_SOURCE_FILE, DATASET_SOURCE_REDIS:
	default:
		return nil, fmt.Errorf("invalid DATASET_SOURCE %q, expected %q or %q",
			cfg.DatasetSource, DATASET_SOURCE_FILE, DATASET_SOURCE_REDIS)
	}

	return cfg, nil
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	// Check if PROJECT_ROOT is set
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	// Default to the current working directory
	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resource_file string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resource_file)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
