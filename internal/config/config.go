package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the entire application configuration
type Config struct {
	Cache    CacheConfig    `mapstructure:"cache"`
	Download DownloadConfig `mapstructure:"download"`
	History  HistoryConfig  `mapstructure:"history"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// CacheConfig contains model cache settings
type CacheConfig struct {
	RootDir string `mapstructure:"root_dir"`
}

// DownloadConfig contains download tuning
type DownloadConfig struct {
	// BaseURL overrides the catalog's download host (mirror support).
	// When set, artifact URLs become BaseURL + "/" + file name.
	BaseURL          string `mapstructure:"base_url"`
	ChunkSizeKB      int    `mapstructure:"chunk_size_kb"`
	ProgressInterval string `mapstructure:"progress_interval"`
	Timeout          string `mapstructure:"timeout"`
}

// HistoryConfig contains download-history settings
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from the specified file path.
// An empty path loads defaults only.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("cache.root_dir", defaultRootDir())
	v.SetDefault("download.base_url", "")
	v.SetDefault("download.chunk_size_kb", 64)
	v.SetDefault("download.progress_interval", "100ms")
	v.SetDefault("download.timeout", "0s")
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// defaultRootDir places the cache under the user cache dir, falling back to
// a relative directory when the platform reports none.
func defaultRootDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return "modelcache"
	}
	return filepath.Join(base, "modelcache")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Cache.RootDir == "" {
		return fmt.Errorf("cache.root_dir is required")
	}

	if c.Download.ChunkSizeKB <= 0 {
		return fmt.Errorf("download.chunk_size_kb must be positive")
	}
	if _, err := time.ParseDuration(c.Download.ProgressInterval); err != nil {
		return fmt.Errorf("invalid download.progress_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Download.Timeout); err != nil {
		return fmt.Errorf("invalid download.timeout: %w", err)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	return nil
}

// GetChunkSize returns the download chunk size in bytes
func (c *DownloadConfig) GetChunkSize() int {
	if c.ChunkSizeKB <= 0 {
		return 64 * 1024
	}
	return c.ChunkSizeKB * 1024
}

// GetProgressInterval returns the progress interval as time.Duration
func (c *DownloadConfig) GetProgressInterval() time.Duration {
	d, _ := time.ParseDuration(c.ProgressInterval)
	if d == 0 {
		return 100 * time.Millisecond
	}
	return d
}

// GetTimeout returns the HTTP client timeout as time.Duration.
// Zero means no overall timeout: full artifacts run to multiple gigabytes.
func (c *DownloadConfig) GetTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// GetHistoryPath returns the history database path, defaulting to a file
// inside the cache root.
func (c *Config) GetHistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(c.Cache.RootDir, "history.db")
}
