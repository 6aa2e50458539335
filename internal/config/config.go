// Package config loads application configuration from config files,
// environment variables, and .env files.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration. It is passed explicitly into
// constructors; only the CLI layer touches the package-level accessor.
type Config struct {
	App      App      `mapstructure:"app"`
	AI       AI       `mapstructure:"ai"`
	Sources  Sources  `mapstructure:"sources"`
	Buzz     Buzz     `mapstructure:"buzz"`
	Hashnode Hashnode `mapstructure:"hashnode"`
	Records  Records  `mapstructure:"records"`
	Pipeline Pipeline `mapstructure:"pipeline"`
}

// App holds general application configuration
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`
}

// AI holds text-generation provider configuration
type AI struct {
	Provider string       `mapstructure:"provider"` // "gemini" or "openai"
	Gemini   GeminiConfig `mapstructure:"gemini"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Models      string  `mapstructure:"models"` // comma-separated fallback chain
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int32   `mapstructure:"max_tokens"`
	Timeout     string  `mapstructure:"timeout"`
}

// OpenAIConfig holds OpenAI-compatible provider configuration
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Models      string  `mapstructure:"models"` // comma-separated fallback chain
	Temperature float32 `mapstructure:"temperature"`
	Timeout     string  `mapstructure:"timeout"`
}

// Sources holds buzz source scraping configuration
type Sources struct {
	UserAgent       string   `mapstructure:"user_agent"`
	Timeout         string   `mapstructure:"timeout"`         // per HTTP request
	AdapterTimeout  string   `mapstructure:"adapter_timeout"` // per source adapter, hung adapter = failed adapter
	RateLimit       string   `mapstructure:"rate_limit"`      // min interval between outbound scrape requests
	MovieSubreddits []string `mapstructure:"movie_subreddits"`
	TVSubreddits    []string `mapstructure:"tv_subreddits"`
	CacheEnabled    bool     `mapstructure:"cache_enabled"`
	CacheTTL        string   `mapstructure:"cache_ttl"`
}

// Buzz holds aggregation weights. The numeric weights are presentation
// choices with no single canonical value; they are configuration, with the
// defaults below as the documented constants.
type Buzz struct {
	WeightIMDBMeter    float64 `mapstructure:"weight_imdb_meter"`
	WeightLetterboxd   float64 `mapstructure:"weight_letterboxd"`
	WeightReddit       float64 `mapstructure:"weight_reddit"`
	WeightGoogleTrends float64 `mapstructure:"weight_google_trends"`
	WeightStatic       float64 `mapstructure:"weight_static"`
}

// Hashnode holds blogging platform configuration
type Hashnode struct {
	Endpoint      string `mapstructure:"endpoint"`
	PublicationID string `mapstructure:"publication_id"`
	AccessToken   string `mapstructure:"access_token"`
	Timeout       string `mapstructure:"timeout"`
}

// Records holds draft record store configuration
type Records struct {
	Path string `mapstructure:"path"`
}

// Pipeline holds orchestrator configuration
type Pipeline struct {
	MaxConcurrency int    `mapstructure:"max_concurrency"`
	DedupWindow    string `mapstructure:"dedup_window"`
}

var globalConfig *Config

// Load loads the configuration from .env, config file, and environment.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".reelbuzz")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// Reset clears the cached configuration (used by tests).
func Reset() {
	globalConfig = nil
	viper.Reset()
}

// Duration parses a config duration string, returning fallback when the
// value is empty or malformed.
func Duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.data_dir", ".reelbuzz-cache")

	// AI defaults
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.models", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.temperature", 0.8)
	viper.SetDefault("ai.gemini.max_tokens", 2048)
	viper.SetDefault("ai.gemini.timeout", "60s")
	viper.SetDefault("ai.openai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("ai.openai.models", "gpt-4o-mini")
	viper.SetDefault("ai.openai.temperature", 0.8)
	viper.SetDefault("ai.openai.timeout", "60s")

	// Sources defaults
	viper.SetDefault("sources.user_agent", "Mozilla/5.0 (compatible; reelbuzz/1.0)")
	viper.SetDefault("sources.timeout", "15s")
	viper.SetDefault("sources.adapter_timeout", "20s")
	viper.SetDefault("sources.rate_limit", "500ms")
	viper.SetDefault("sources.movie_subreddits", []string{"movies", "flicks", "TrueFilm", "MovieSuggestions"})
	viper.SetDefault("sources.tv_subreddits", []string{"television", "televisionsuggestions"})
	viper.SetDefault("sources.cache_enabled", true)
	viper.SetDefault("sources.cache_ttl", "1h")

	// Buzz weights
	viper.SetDefault("buzz.weight_imdb_meter", 40.0)
	viper.SetDefault("buzz.weight_letterboxd", 30.0)
	viper.SetDefault("buzz.weight_reddit", 25.0)
	viper.SetDefault("buzz.weight_google_trends", 15.0)
	viper.SetDefault("buzz.weight_static", 1.0)

	// Hashnode defaults
	viper.SetDefault("hashnode.endpoint", "https://gql.hashnode.com")
	viper.SetDefault("hashnode.timeout", "30s")

	// Records defaults
	viper.SetDefault("records.path", "last_draft.json")

	// Pipeline defaults
	viper.SetDefault("pipeline.max_concurrency", 2)
	viper.SetDefault("pipeline.dedup_window", "168h")
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	bindEnvKeys("ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	bindEnvKeys("ai.openai.api_key", []string{
		"OPENAI_API_KEY",
	})

	bindEnvKeys("hashnode.publication_id", []string{
		"HN_PUBLICATION_ID",
		"HASHNODE_PUBLICATION_ID",
	})

	bindEnvKeys("hashnode.access_token", []string{
		"HN_ACCESS_TOKEN",
		"HASHNODE_ACCESS_TOKEN",
	})
}

// bindEnvKeys binds a config key to multiple environment variable names,
// first set value wins.
func bindEnvKeys(configKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(configKey, value)
			return
		}
	}
}

// Convenience accessors for commonly used values
func GetHashnode() Hashnode { return Get().Hashnode }
func GetAI() AI             { return Get().AI }
func IsDebugMode() bool     { return Get().App.Debug }
