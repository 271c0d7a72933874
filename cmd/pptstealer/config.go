package main

import (
	"fmt"
	"os"
	"time"

	"github.com/starchen4/pptstealer"
	"gopkg.in/yaml.v3"
)

// Config is the process configuration read from a YAML file.
type Config struct {
	Server   ServerConfig           `yaml:"server"`
	Fetch    FetchConfig            `yaml:"fetch"`
	Download DownloadConfig         `yaml:"download"`
	PDF      PDFConfig              `yaml:"pdf"`
	Filters  pptstealer.FilterRules `yaml:"filters"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	StaticDir       string        `yaml:"static_dir"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// FetchConfig configures article retrieval.
type FetchConfig struct {
	Browser     bool          `yaml:"browser"`
	BrowserBin  string        `yaml:"browser_bin"`
	MaxPages    int64         `yaml:"max_pages"`
	Timeout     time.Duration `yaml:"timeout"`
	UserAgent   string        `yaml:"user_agent"`
	MaxPageSize int64         `yaml:"max_page_size"`
}

// DownloadConfig configures image retrieval.
type DownloadConfig struct {
	Concurrency  int             `yaml:"concurrency"`
	Timeout      time.Duration   `yaml:"timeout"`
	RateLimit    float64         `yaml:"rate_limit"`
	RetryDelays  []time.Duration `yaml:"retry_delays"`
	MaxImageSize int64           `yaml:"max_image_size"`
}

// PDFConfig configures page layout.
type PDFConfig struct {
	Margin float64 `yaml:"margin"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ShutdownTimeout: 10 * time.Second,
		},
		Fetch: FetchConfig{
			MaxPages:    50,
			Timeout:     30 * time.Second,
			MaxPageSize: 16 << 20,
		},
		Download: DownloadConfig{
			Concurrency:  4,
			Timeout:      30 * time.Second,
			RetryDelays:  []time.Duration{time.Second, 2 * time.Second},
			MaxImageSize: 32 << 20,
		},
		Filters: pptstealer.DefaultFilterRules(),
	}
}

// LoadConfig reads the YAML file at path over DefaultConfig.
// An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Download.Concurrency < 0 {
		return pptstealer.Errorf(pptstealer.EINVALID, "download.concurrency must not be negative")
	}
	if c.Download.RateLimit < 0 {
		return pptstealer.Errorf(pptstealer.EINVALID, "download.rate_limit must not be negative")
	}
	if c.Fetch.Timeout < 0 || c.Download.Timeout < 0 {
		return pptstealer.Errorf(pptstealer.EINVALID, "timeouts must not be negative")
	}
	if c.PDF.Margin < 0 {
		return pptstealer.Errorf(pptstealer.EINVALID, "pdf.margin must not be negative")
	}
	return c.Filters.Validate()
}
