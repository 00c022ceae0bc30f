package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Scraper   ScraperConfig
	LLM       LLMConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DataConfig points at the two static tables
type DataConfig struct {
	EmissionFactorsPath string `mapstructure:"emission_factors_path"`
	CatalogPath         string `mapstructure:"catalog_path"`
}

// ScraperConfig selects how product pages are fetched
type ScraperConfig struct {
	Mode    string        `mapstructure:"mode"` // "browser" or "http"
	Timeout time.Duration `mapstructure:"timeout"`
	// AllowPrivateHosts permits loopback, private and link-local product URLs
	AllowPrivateHosts bool `mapstructure:"allow_private_hosts"`
}

// LLMConfig holds language model configuration
type LLMConfig struct {
	Provider          string        `mapstructure:"provider"` // "gemini" or "openrouter"
	APIKeys           []string      `mapstructure:"api_keys"`
	Model             string        `mapstructure:"model"`
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type            string        `mapstructure:"type"` // "memory" or "none"
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupSchedule string        `mapstructure:"cleanup_schedule"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute on the analysis routes, 0 disables
	// TrustProxyHeaders keys clients by X-Forwarded-For / X-Real-IP. Enable only
	// behind a proxy that overwrites those headers.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/carbonwise/")

	// CARBONWISE_LLM_API_KEYS -> llm.api_keys
	v.SetEnvPrefix("CARBONWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	config.LLM.APIKeys = mergeKeys(config.LLM.APIKeys, legacyAPIKeys(os.Environ()))

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env if present. Variables already set in the
// environment are not overridden.
func loadEnvFile() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Data defaults
	v.SetDefault("data.emission_factors_path", "data/emission_factor_dataset.csv")
	v.SetDefault("data.catalog_path", "data/amazon_products.csv")

	// Scraper defaults
	v.SetDefault("scraper.mode", "browser")
	v.SetDefault("scraper.timeout", "45s")
	v.SetDefault("scraper.allow_private_hosts", false)

	// LLM defaults
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_keys", []string{})
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", "20s")
	v.SetDefault("llm.requests_per_minute", 60)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_schedule", "@every 10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 30)
	v.SetDefault("ratelimit.trust_proxy_headers", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// legacyAPIKeys collects GOOGLE_API followed by DETAILS_API_KEY* sorted by variable name
func legacyAPIKeys(environ []string) []string {
	var keys []string
	var detailNames []string
	detailValues := make(map[string]string)

	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" {
			continue
		}
		switch {
		case name == "GOOGLE_API":
			keys = append(keys, value)
		case strings.HasPrefix(name, "DETAILS_API_KEY"):
			detailNames = append(detailNames, name)
			detailValues[name] = value
		}
	}

	sort.Strings(detailNames)
	for _, name := range detailNames {
		keys = append(keys, detailValues[name])
	}
	return keys
}

// mergeKeys concatenates key lists, dropping blanks and duplicates
func mergeKeys(lists ...[]string) []string {
	seen := make(map[string]bool)
	merged := []string{}
	for _, list := range lists {
		for _, k := range list {
			// A single env var may carry "a,b" when not split by the decoder
			for _, part := range strings.Split(k, ",") {
				part = strings.TrimSpace(part)
				if part == "" || seen[part] {
					continue
				}
				seen[part] = true
				merged = append(merged, part)
			}
		}
	}
	return merged
}

// validate validates the configuration. Missing LLM keys are allowed.
func validate(config *Config) error {
	switch config.LLM.Provider {
	case "gemini", "openrouter":
	default:
		return fmt.Errorf("llm provider must be 'gemini' or 'openrouter', got: %s", config.LLM.Provider)
	}

	if config.Scraper.Mode != "browser" && config.Scraper.Mode != "http" {
		return fmt.Errorf("scraper mode must be 'browser' or 'http', got: %s", config.Scraper.Mode)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "none" {
		return fmt.Errorf("cache type must be 'memory' or 'none', got: %s", config.Cache.Type)
	}

	if config.Scraper.Timeout <= 0 {
		return fmt.Errorf("scraper timeout must be positive, got: %s", config.Scraper.Timeout)
	}
	if config.LLM.Timeout <= 0 {
		return fmt.Errorf("llm timeout must be positive, got: %s", config.LLM.Timeout)
	}

	if config.Data.EmissionFactorsPath == "" || config.Data.CatalogPath == "" {
		return fmt.Errorf("data.emission_factors_path and data.catalog_path are required")
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
