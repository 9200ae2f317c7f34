package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Crawler CrawlerConfig `mapstructure:"crawler"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	APIs    APIConfig     `mapstructure:"apis"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CrawlerConfig holds session-level configuration
type CrawlerConfig struct {
	MaxAdditionalURLs int           `mapstructure:"max_additional_urls"`
	SitemapDepth      int           `mapstructure:"sitemap_depth"`
	PageDelay         time.Duration `mapstructure:"page_delay"`
	SessionTimeout    time.Duration `mapstructure:"session_timeout"`
}

// FetchConfig holds per-request resilience configuration
type FetchConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	PolitenessMin time.Duration `mapstructure:"politeness_min"`
	PolitenessMax time.Duration `mapstructure:"politeness_max"`
	BackoffMin    time.Duration `mapstructure:"backoff_min"`
	BackoffMax    time.Duration `mapstructure:"backoff_max"`
}

// APIConfig holds external collaborator credentials
type APIConfig struct {
	OpenAI OpenAIConfig `mapstructure:"openai"`
}

// OpenAIConfig holds the completion collaborator's configuration
type OpenAIConfig struct {
	APIKey    string  `mapstructure:"api_key"`
	Model     string  `mapstructure:"model"`
	MaxTokens int     `mapstructure:"max_tokens"`
	Temp      float64 `mapstructure:"temperature"`
}

// StorageConfig holds storage collaborator configuration
type StorageConfig struct {
	Type string `mapstructure:"type"` // "file"
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("$HOME/.siteloom")
	}

	setDefaults()
	bindEnvVars()

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults and env cover it
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.APIs.OpenAI.APIKey = apiKey
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("crawler.max_additional_urls", 50)
	viper.SetDefault("crawler.sitemap_depth", 3)
	viper.SetDefault("crawler.page_delay", "1s")
	viper.SetDefault("crawler.session_timeout", "15m")

	viper.SetDefault("fetch.timeout", "15s")
	viper.SetDefault("fetch.politeness_min", "2s")
	viper.SetDefault("fetch.politeness_max", "5s")
	viper.SetDefault("fetch.backoff_min", "10s")
	viper.SetDefault("fetch.backoff_max", "25s")

	viper.SetDefault("apis.openai.model", "gpt-4")
	viper.SetDefault("apis.openai.max_tokens", 2000)
	viper.SetDefault("apis.openai.temperature", 0.7)

	viper.SetDefault("storage.type", "file")
	viper.SetDefault("storage.path", "./data")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
}

// bindEnvVars binds environment variables
func bindEnvVars() {
	viper.SetEnvPrefix("SITELOOM")
	viper.AutomaticEnv()

	viper.BindEnv("apis.openai.api_key", "OPENAI_API_KEY")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Crawler.MaxAdditionalURLs <= 0 {
		return fmt.Errorf("crawler.max_additional_urls must be positive")
	}
	if c.Crawler.SitemapDepth <= 0 {
		return fmt.Errorf("crawler.sitemap_depth must be positive")
	}
	if c.Fetch.PolitenessMax < c.Fetch.PolitenessMin {
		return fmt.Errorf("fetch.politeness_max must be >= fetch.politeness_min")
	}
	if c.Fetch.BackoffMax < c.Fetch.BackoffMin {
		return fmt.Errorf("fetch.backoff_max must be >= fetch.backoff_min")
	}
	return nil
}
