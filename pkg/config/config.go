package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the monitor service.
type Config struct {
	// Remote API settings
	API APIConfig `yaml:"api" json:"api"`

	// Crawl pacing and bounds
	Crawl CrawlConfig `yaml:"crawl" json:"crawl"`

	// Media-to-text conversion backends
	Conversion ConversionConfig `yaml:"conversion" json:"conversion"`

	// Persistence settings
	Storage StorageConfig `yaml:"storage" json:"storage"`

	// HTTP service settings
	Server ServerConfig `yaml:"server" json:"server"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig holds remote catalog API configuration.
type APIConfig struct {
	BaseURL        string        `yaml:"base_url" json:"base_url"`
	WebBaseURL     string        `yaml:"web_base_url" json:"web_base_url"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// CrawlConfig holds pagination pacing and bounds.
type CrawlConfig struct {
	// Interval is the delay between page requests.
	Interval time.Duration `yaml:"interval" json:"interval"`
	// PageSize is the number of notes requested per page.
	PageSize int `yaml:"page_size" json:"page_size"`
	// MaxPages caps the pagination loop in case the remote API returns a
	// non-advancing cursor.
	MaxPages int `yaml:"max_pages" json:"max_pages"`
	// MaxRetries bounds retries of rate-limited page fetches.
	MaxRetries int `yaml:"max_retries" json:"max_retries"`
}

// ConversionConfig holds the external conversion backend settings. Empty
// URLs mean no backend is configured and conversion degrades to the
// description/title fallback.
type ConversionConfig struct {
	VideoAPIURL      string        `yaml:"video_api_url" json:"video_api_url"`
	ImageAPIURL      string        `yaml:"image_api_url" json:"image_api_url"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout"`
	MaxImagesPerNote int           `yaml:"max_images_per_note" json:"max_images_per_note"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

// ServerConfig holds the HTTP service settings.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://edith.xiaohongshu.com",
			WebBaseURL:     "https://www.xiaohongshu.com",
			UserAgent:      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			RequestTimeout: 10 * time.Second,
		},
		Crawl: CrawlConfig{
			Interval:   time.Second,
			PageSize:   30,
			MaxPages:   100,
			MaxRetries: 3,
		},
		Conversion: ConversionConfig{
			VideoAPIURL:      "",
			ImageAPIURL:      "",
			Timeout:          30 * time.Second,
			MaxImagesPerNote: 5,
		},
		Storage: StorageConfig{
			DataDir: "data",
		},
		Server: ServerConfig{
			Addr: ":5000",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("XHSMON_API_BASE_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if userAgent := os.Getenv("XHSMON_USER_AGENT"); userAgent != "" {
		c.API.UserAgent = userAgent
	}
	if timeout := os.Getenv("XHSMON_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			c.API.RequestTimeout = d
		}
	}
	if interval := os.Getenv("XHSMON_CRAWL_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil && d >= 0 {
			c.Crawl.Interval = d
		}
	}
	if maxPages := os.Getenv("XHSMON_MAX_PAGES"); maxPages != "" {
		var val int
		fmt.Sscanf(maxPages, "%d", &val)
		if val > 0 {
			c.Crawl.MaxPages = val
		}
	}
	if videoURL := os.Getenv("XHSMON_VIDEO_API_URL"); videoURL != "" {
		c.Conversion.VideoAPIURL = videoURL
	}
	if imageURL := os.Getenv("XHSMON_IMAGE_API_URL"); imageURL != "" {
		c.Conversion.ImageAPIURL = imageURL
	}
	if dataDir := os.Getenv("XHSMON_DATA_DIR"); dataDir != "" {
		c.Storage.DataDir = dataDir
	}
	if addr := os.Getenv("XHSMON_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if logLevel := os.Getenv("XHSMON_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file.
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations.
func (c *Config) findConfigFile() string {
	locations := []string{
		".xhsmonitor.yaml",
		".xhsmonitor.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "xhsmonitor", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "xhsmonitor", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".xhsmonitor.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("API base URL is required"))
	}
	if c.API.WebBaseURL == "" {
		errs = append(errs, errors.New("web base URL is required"))
	}
	if c.API.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Crawl.Interval < 0 {
		errs = append(errs, errors.New("crawl interval cannot be negative"))
	}
	if c.Crawl.PageSize <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}
	if c.Crawl.MaxPages <= 0 {
		errs = append(errs, errors.New("max pages must be positive"))
	}
	if c.Crawl.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}

	if c.Conversion.Timeout <= 0 {
		errs = append(errs, errors.New("conversion timeout must be positive"))
	}
	if c.Conversion.MaxImagesPerNote <= 0 {
		errs = append(errs, errors.New("max images per note must be positive"))
	}

	if c.Storage.DataDir == "" {
		errs = append(errs, errors.New("data directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if dataDir, ok := flags["data-dir"].(string); ok && dataDir != "" {
		c.Storage.DataDir = dataDir
	}
	if addr, ok := flags["addr"].(string); ok && addr != "" {
		c.Server.Addr = addr
	}
	if interval, ok := flags["interval"].(time.Duration); ok && interval >= 0 {
		c.Crawl.Interval = interval
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".xhsmonitor.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
