package model

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config is the complete studyprep configuration
type Config struct {
	Chat        ChatConfig        `yaml:"chat" mapstructure:"chat"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// ChatConfig tunes the scripted conversation
type ChatConfig struct {
	PrimaryDelay    time.Duration `yaml:"primary_delay" mapstructure:"primary_delay"`       // Pause before the first reply
	VerifyDelay     time.Duration `yaml:"verify_delay" mapstructure:"verify_delay"`         // Pause before the verified follow-up
	VerifyThreshold float64       `yaml:"verify_threshold" mapstructure:"verify_threshold"` // Draws strictly above this verify
	SeedMessages    bool          `yaml:"seed_messages" mapstructure:"seed_messages"`       // Start sessions with the demo exchange
	CatalogFile     string        `yaml:"catalog_file" mapstructure:"catalog_file"`         // Optional YAML catalog path or http(s) URL; built-in when empty
}

// ServerConfig controls the HTTP/WebSocket front end
type ServerConfig struct {
	Addr              string        `yaml:"addr" mapstructure:"addr"`
	AllowAllOrigins   bool          `yaml:"allow_all_origins" mapstructure:"allow_all_origins"`
	AllowedOrigins    []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	SessionTTL        time.Duration `yaml:"session_ttl" mapstructure:"session_ttl"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"` // Per client address
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	ReportsFile       string        `yaml:"reports_file" mapstructure:"reports_file"` // JSON lines sink for error reports
}

// CacheConfig configures memoization of generated replies
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// LLMConfig configures the optional rephrasing provider
type LLMConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"` // canned, openai, anthropic, ollama
	Model      string `yaml:"model" mapstructure:"model"`       // empty selects the provider default
	APIKey     string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL    string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout    int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens  int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ConcurrencyConfig bounds batch processing
type ConcurrencyConfig struct {
	Workers           int     `yaml:"workers" mapstructure:"workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// OutputConfig controls rendering and logging
type OutputConfig struct {
	Verbose       bool   `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool   `yaml:"include_footer" mapstructure:"include_footer"`
	PlainText     bool   `yaml:"plain_text" mapstructure:"plain_text"` // Strip markup in terminal output
	LogMode       string `yaml:"log_mode" mapstructure:"log_mode"`     // development or production
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Chat: ChatConfig{
			PrimaryDelay:    1500 * time.Millisecond,
			VerifyDelay:     2000 * time.Millisecond,
			VerifyThreshold: 0.3,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			AllowedOrigins:    []string{"http://localhost:*", "http://127.0.0.1:*"},
			SessionTTL:        30 * time.Minute,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		LLM: LLMConfig{
			Provider:  "canned",
			Timeout:   30,
			MaxTokens: 600,
		},
		Concurrency: ConcurrencyConfig{
			Workers:           runtime.NumCPU(),
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Output: OutputConfig{
			IncludeFooter: true,
			PlainText:     true,
			LogMode:       "development",
		},
	}
}

// defaultCacheDir prefers the user cache directory and falls back to the working directory
func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".studyprep-cache"
	}
	return filepath.Join(dir, "studyprep")
}
