package model

import "time"

// Config is the complete legalens configuration
type Config struct {
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Extraction   ExtractionConfig   `yaml:"extraction" mapstructure:"extraction"`
	Fusion       FusionConfig       `yaml:"fusion" mapstructure:"fusion"`
	Providers    ProvidersConfig    `yaml:"providers" mapstructure:"providers"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls page fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig controls the fused report cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig controls per-domain request pacing in batch mode
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ExtractionConfig controls the extraction chain
type ExtractionConfig struct {
	MinLength  int  `yaml:"min_length" mapstructure:"min_length"`   // Substantial content threshold
	SiteChains bool `yaml:"site_chains" mapstructure:"site_chains"` // Enable site-specific cascades
}

// FusionConfig controls how provider reports are combined
type FusionConfig struct {
	// Exclude lists providers whose reports are dropped unless nothing else succeeded
	Exclude []string `yaml:"exclude" mapstructure:"exclude"`
}

// ProvidersConfig configures every LLM backend
type ProvidersConfig struct {
	OpenAI    ProviderConfig `yaml:"openai" mapstructure:"openai"`
	Gemini    ProviderConfig `yaml:"gemini" mapstructure:"gemini"`
	Anthropic ProviderConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Ollama    ProviderConfig `yaml:"ollama" mapstructure:"ollama"`
}

// ProviderConfig configures one LLM backend
type ProviderConfig struct {
	Enabled     bool     `yaml:"enabled" mapstructure:"enabled"`
	Models      []string `yaml:"models" mapstructure:"models"` // Tried in order
	BaseURL     string   `yaml:"base_url,omitempty" mapstructure:"base_url"`
	APIKey      string   `yaml:"-" mapstructure:"api_key"` // Never written to disk
	Timeout     int      `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int      `yaml:"max_tokens,omitempty" mapstructure:"max_tokens"`
	Temperature float64  `yaml:"temperature" mapstructure:"temperature"`
}

// OutputConfig controls rendering and prompt tone
type OutputConfig struct {
	Verbose       bool   `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool   `yaml:"include_footer" mapstructure:"include_footer"`
	LanguageStyle string `yaml:"language_style" mapstructure:"language_style"` // simple, standard, detailed
	SummaryLength string `yaml:"summary_length" mapstructure:"summary_length"` // short, medium, long
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "legalens/0.1 (+https://github.com/ppiankov/legalens)",
			MaxBodyBytes:  5_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".legalens-cache",
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         2,
		},
		Extraction: ExtractionConfig{
			MinLength:  500,
			SiteChains: true,
		},
		Providers: ProvidersConfig{
			OpenAI: ProviderConfig{
				Enabled:     true,
				Models:      []string{"gpt-4o-mini", "gpt-3.5-turbo-0125"},
				Timeout:     60,
				Temperature: 0.7,
			},
			Gemini: ProviderConfig{
				Enabled:     true,
				Models:      []string{"gemini-1.5-pro", "gemini-1.5-flash"},
				Timeout:     60,
				Temperature: 0.7,
			},
			Anthropic: ProviderConfig{
				Enabled:     true,
				Models:      []string{"claude-3-haiku-20240307"},
				Timeout:     60,
				MaxTokens:   4000,
				Temperature: 0.7,
			},
			Ollama: ProviderConfig{
				Enabled:     false,
				Models:      []string{"llama3.1:8b"},
				BaseURL:     "http://localhost:11434",
				Timeout:     120,
				MaxTokens:   4000,
				Temperature: 0.7,
			},
		},
		Output: OutputConfig{
			IncludeFooter: true,
			LanguageStyle: "simple",
			SummaryLength: "medium",
		},
	}
}
