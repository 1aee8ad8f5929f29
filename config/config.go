// Package config holds harvester configuration.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Writer kinds accepted by the writer factory.
const (
	WriterLogJSON     = "log-json"
	WriterConsoleJSON = "console-json"
	WriterFileJSON    = "file-json"
	WriterFileMulti   = "file-multi"
)

// Image download variants.
const (
	ImageSizeStandard = "standard"
	ImageSizeMax      = "max"
)

// Config holds harvester configuration.
type Config struct {
	BaseURL         string
	ConnTimeout     time.Duration
	ReadTimeout     time.Duration
	MaxAttempts     int
	RetryBackoff    time.Duration
	RetryBackoffMax time.Duration
	UserAgent       string
	ImageSize       string

	WorkerThreads int
	Categories    []string // empty selects every known category
	DedupeMaxSize int

	Writer            string
	DirPath           string
	MetadataDir       string
	ImageDir          string
	SpaceLevel        int
	SortKeys          bool
	IncludeImage      bool
	OverwriteExisting bool

	MetricsAddr string
	Verbose     bool
}

// DefaultConfig returns conservative defaults for the Artvee catalog.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "https://artvee.com",
		ConnTimeout:     3050 * time.Millisecond,
		ReadTimeout:     10 * time.Second,
		MaxAttempts:     3,
		RetryBackoff:    time.Second,
		RetryBackoffMax: 30 * time.Second,
		UserAgent:       "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		ImageSize:       ImageSizeStandard,
		WorkerThreads:   3,
		DedupeMaxSize:   10000,
		Writer:          WriterLogJSON,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.ConnTimeout < 0 {
		return fmt.Errorf("connection timeout cannot be negative")
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("read timeout cannot be negative")
	}
	if c.MaxAttempts < 1 || c.MaxAttempts > 10 {
		return fmt.Errorf("max attempts must be in range [1-10]")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff cannot be negative")
	}
	if c.RetryBackoffMax < 0 {
		return fmt.Errorf("retry backoff max cannot be negative")
	}
	if c.RetryBackoffMax > 0 && c.RetryBackoff > c.RetryBackoffMax {
		return fmt.Errorf("retry backoff (%s) cannot exceed retry backoff max (%s)", c.RetryBackoff, c.RetryBackoffMax)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.ImageSize != ImageSizeStandard && c.ImageSize != ImageSizeMax {
		return fmt.Errorf("image size must be %s or %s", ImageSizeStandard, ImageSizeMax)
	}

	if c.WorkerThreads < 1 || c.WorkerThreads > 10 {
		return fmt.Errorf("worker threads must be in range [1-10]")
	}
	if c.DedupeMaxSize <= 0 {
		return fmt.Errorf("dedupe max size must be positive")
	}

	switch c.Writer {
	case WriterLogJSON, WriterConsoleJSON:
	case WriterFileJSON:
		if c.DirPath == "" {
			return fmt.Errorf("writer %s requires an output directory", c.Writer)
		}
	case WriterFileMulti:
		if c.MetadataDir == "" || c.ImageDir == "" {
			return fmt.Errorf("writer %s requires metadata and image directories", c.Writer)
		}
	default:
		return fmt.Errorf("writer must be one of %s, %s, %s, %s",
			WriterLogJSON, WriterConsoleJSON, WriterFileJSON, WriterFileMulti)
	}
	if c.SpaceLevel < 0 {
		return fmt.Errorf("space level cannot be negative")
	}

	return nil
}
