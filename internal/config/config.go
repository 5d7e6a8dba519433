/**
 * Configuration for the OCR adapter
 *
 * Loads configuration from environment variables (optionally seeded from .env.ocr).
 * The language list and accelerator flag are fixed in ocr.DefaultOptions, not here.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Supported capability backends
const (
	EngineGosseract    = "gosseract"
	EngineTesseractCLI = "tesseract-cli"
)

// Config holds adapter configuration
type Config struct {
	// Capability backend
	Engine string

	// Tesseract configuration
	TesseractPath  string
	TessdataPrefix string
	PageSegMode    int

	// Diagnostics
	LogFile string
	Debug   bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Engine:         strings.ToLower(getEnvOrDefault("OCR_ENGINE", EngineGosseract)),
		TesseractPath:  getEnvOrDefault("TESSERACT_PATH", "tesseract"),
		TessdataPrefix: getEnvOrDefault("TESSDATA_PREFIX", ""),
		PageSegMode:    getEnvAsIntOrDefault("OCR_PAGE_SEG_MODE", 3), // fully automatic
		LogFile:        getEnvOrDefault("OCR_LOG_FILE", ""),
		Debug:          getEnvAsBoolOrDefault("OCR_DEBUG", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineGosseract, EngineTesseractCLI:
	default:
		return fmt.Errorf("OCR_ENGINE must be one of %s, %s; got %q", EngineGosseract, EngineTesseractCLI, c.Engine)
	}

	if c.Engine == EngineTesseractCLI && c.TesseractPath == "" {
		return fmt.Errorf("TESSERACT_PATH is required for engine %s", EngineTesseractCLI)
	}

	if c.PageSegMode < 0 || c.PageSegMode > 13 {
		return fmt.Errorf("OCR_PAGE_SEG_MODE must be between 0 and 13, got %d", c.PageSegMode)
	}

	return nil
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
