package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataPath        string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Chart size in pixels.
	ChartWidth  int
	ChartHeight int
}

// Load reads configuration from environment variables, applying defaults where unset.
// Variables from a .env file in the working directory (or ENV_FILE) are applied
// first; they never override the real environment.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	chartWidth, err := parsePositiveInt("CHART_WIDTH", 800)
	if err != nil {
		return nil, err
	}
	chartHeight, err := parsePositiveInt("CHART_HEIGHT", 600)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataPath:        sharedcfg.EnvOrDefault("DATA_PATH", "data/enviroment.csv"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		ChartWidth:      chartWidth,
		ChartHeight:     chartHeight,
	}

	if cfg.DataPath == "" {
		return nil, errors.New("DATA_PATH is required")
	}

	return cfg, nil
}

func loadDotEnv() error {
	path := sharedcfg.EnvOrDefault("ENV_FILE", ".env")
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}
