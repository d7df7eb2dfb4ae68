package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Limits  LimitsConfig  `yaml:"limits"`
	OCR     OCRConfig     `yaml:"ocr"`
	Convert ConvertConfig `yaml:"convert"`
	Fetch   FetchConfig   `yaml:"fetch"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	APIKey         string `yaml:"api_key"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	MaxConcurrent  int    `yaml:"max_concurrent"`
}

// LimitsConfig holds the caller-enforced processing limits. Both are
// rejectable preconditions, not internal constants of the core.
type LimitsConfig struct {
	MaxPages       int           `yaml:"max_pages"`
	ProcessTimeout time.Duration `yaml:"process_timeout"`
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Pdftoppm    string `yaml:"pdftoppm"`
	Tesseract   string `yaml:"tesseract"`
	Lang        string `yaml:"lang"`
	TessdataDir string `yaml:"tessdata_dir"`
	DPI         int    `yaml:"dpi"`
	MaxPixelDim int    `yaml:"max_pixel_dim"`
	RetryPSM    int    `yaml:"retry_psm"`
}

// ConvertConfig holds office-to-PDF conversion configuration
type ConvertConfig struct {
	Soffice string `yaml:"soffice"`
}

// FetchConfig holds remote document source configuration
type FetchConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	MaxBytes   int64         `yaml:"max_bytes"`
	S3Region   string        `yaml:"s3_region"`
	S3Endpoint string        `yaml:"s3_endpoint"`
}

// LoadConfig builds configuration from defaults, an optional YAML file, and
// environment variable overrides, in that order.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:           getEnv("ADDR", ":8080"),
			MaxUploadBytes: 32 << 20,
			MaxConcurrent:  4,
		},
		Limits: LimitsConfig{
			MaxPages:       50,
			ProcessTimeout: 2 * time.Minute,
		},
		OCR: OCRConfig{
			Pdftoppm:    "pdftoppm",
			Tesseract:   "tesseract",
			Lang:        "eng",
			DPI:         150,
			MaxPixelDim: 4000,
			RetryPSM:    6,
		},
		Convert: ConvertConfig{
			Soffice: "soffice",
		},
		Fetch: FetchConfig{
			Timeout:  30 * time.Second,
			MaxBytes: 32 << 20,
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Environment overrides
	cfg.Server.Addr = getEnv("ADDR", cfg.Server.Addr)
	cfg.Server.APIKey = getEnv("API_KEY", cfg.Server.APIKey)
	cfg.Server.MaxUploadBytes = getEnvAsInt64("MAX_UPLOAD_BYTES", cfg.Server.MaxUploadBytes)
	cfg.Server.MaxConcurrent = getEnvAsInt("MAX_CONCURRENT", cfg.Server.MaxConcurrent)
	cfg.Limits.MaxPages = getEnvAsInt("MAX_PAGES", cfg.Limits.MaxPages)
	cfg.Limits.ProcessTimeout = getEnvAsDuration("PROCESS_TIMEOUT", cfg.Limits.ProcessTimeout)
	cfg.OCR.Pdftoppm = getEnv("PDFTOPPM", cfg.OCR.Pdftoppm)
	cfg.OCR.Tesseract = getEnv("TESSERACT", cfg.OCR.Tesseract)
	cfg.OCR.Lang = getEnv("TESSERACT_LANG", cfg.OCR.Lang)
	cfg.OCR.TessdataDir = getEnv("TESSDATA_PREFIX", cfg.OCR.TessdataDir)
	cfg.OCR.DPI = getEnvAsInt("OCR_DPI", cfg.OCR.DPI)
	cfg.Convert.Soffice = getEnv("SOFFICE", cfg.Convert.Soffice)
	cfg.Fetch.S3Region = getEnv("S3_REGION", cfg.Fetch.S3Region)
	cfg.Fetch.S3Endpoint = getEnv("S3_ENDPOINT", cfg.Fetch.S3Endpoint)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "server addr is required", nil)
	}
	if c.Limits.ProcessTimeout <= 0 {
		return NewAppError("CONFIG_ERROR", "process_timeout must be positive", nil)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "ocr dpi must be positive", nil)
	}
	if c.OCR.MaxPixelDim <= 0 {
		return NewAppError("CONFIG_ERROR", "ocr max_pixel_dim must be positive", nil)
	}
	return nil
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
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
