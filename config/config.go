// Package config provides configuration structures for the channel chat service
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CHANNELCHAT"

// Config holds configuration for the ingestion pipeline, chat service and HTTP server
type Config struct {
	// HTTP server
	ListenAddr     string   `mapstructure:"listen_addr" yaml:"listen_addr" json:"listen_addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins" json:"allowed_origins"`

	// YouTube lookups
	YouTubeAPIKey       string        `mapstructure:"youtube_api_key" yaml:"youtube_api_key" json:"-"`
	YouTubeEndpoint     string        `mapstructure:"youtube_endpoint" yaml:"youtube_endpoint" json:"youtube_endpoint,omitempty"` // Override for the Data API base URL
	TranscriptBaseURL   string        `mapstructure:"transcript_base_url" yaml:"transcript_base_url" json:"transcript_base_url,omitempty"`
	TranscriptLanguages []string      `mapstructure:"transcript_languages" yaml:"transcript_languages" json:"transcript_languages"`
	TranscriptRPS       float64       `mapstructure:"transcript_rps" yaml:"transcript_rps" json:"transcript_rps"`                         // Transcript requests per second, 0 = unlimited
	ProviderTimeout     time.Duration `mapstructure:"provider_timeout" yaml:"provider_timeout" json:"provider_timeout"`                   // Bound on every upstream call
	MaxVideos           int           `mapstructure:"max_videos" yaml:"max_videos" json:"max_videos"`                                     // Videos per channel
	TranscriptWorkers   int           `mapstructure:"transcript_concurrency" yaml:"transcript_concurrency" json:"transcript_concurrency"` // 1 = sequential
	TranscriptsDir      string        `mapstructure:"transcripts_dir" yaml:"transcripts_dir" json:"transcripts_dir"`

	// Conversational model
	GeminiAPIKey       string        `mapstructure:"gemini_api_key" yaml:"gemini_api_key" json:"-"`
	GeminiModel        string        `mapstructure:"gemini_model" yaml:"gemini_model" json:"gemini_model"`
	Temperature        float32       `mapstructure:"temperature" yaml:"temperature" json:"temperature"`
	TopP               float32       `mapstructure:"top_p" yaml:"top_p" json:"top_p"`
	TopK               int32         `mapstructure:"top_k" yaml:"top_k" json:"top_k"`
	MaxOutputTokens    int32         `mapstructure:"max_output_tokens" yaml:"max_output_tokens" json:"max_output_tokens"`
	ChatTimeout        time.Duration `mapstructure:"chat_timeout" yaml:"chat_timeout" json:"chat_timeout"`
	ContextChunkTokens int           `mapstructure:"context_chunk_tokens" yaml:"context_chunk_tokens" json:"context_chunk_tokens"` // 0 = never chunk the priming context

	CacheEnabled bool `mapstructure:"cache_enabled" yaml:"cache_enabled" json:"cache_enabled"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" json:"log_format"` // "console" or "json"
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:          ":8000",
		AllowedOrigins:      []string{"*"},
		TranscriptLanguages: []string{"en"},
		TranscriptRPS:       2,
		ProviderTimeout:     30 * time.Second,
		MaxVideos:           5,
		TranscriptWorkers:   1,
		TranscriptsDir:      "transcripts",
		GeminiModel:         "gemini-1.5-pro",
		Temperature:         0.9,
		TopP:                0.95,
		TopK:                64,
		MaxOutputTokens:     8192,
		ChatTimeout:         2 * time.Minute,
		ContextChunkTokens:  200000,
		CacheEnabled:        true,
		LogLevel:            "info",
		LogFormat:           "console",
	}
}

// SetDefaults registers DefaultConfig values on v so env vars and config
// files can override individual keys.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("allowed_origins", d.AllowedOrigins)
	v.SetDefault("youtube_api_key", "")
	v.SetDefault("youtube_endpoint", "")
	v.SetDefault("transcript_base_url", "")
	v.SetDefault("transcript_languages", d.TranscriptLanguages)
	v.SetDefault("transcript_rps", d.TranscriptRPS)
	v.SetDefault("provider_timeout", d.ProviderTimeout)
	v.SetDefault("max_videos", d.MaxVideos)
	v.SetDefault("transcript_concurrency", d.TranscriptWorkers)
	v.SetDefault("transcripts_dir", d.TranscriptsDir)
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", d.GeminiModel)
	v.SetDefault("temperature", d.Temperature)
	v.SetDefault("top_p", d.TopP)
	v.SetDefault("top_k", d.TopK)
	v.SetDefault("max_output_tokens", d.MaxOutputTokens)
	v.SetDefault("chat_timeout", d.ChatTimeout)
	v.SetDefault("context_chunk_tokens", d.ContextChunkTokens)
	v.SetDefault("cache_enabled", d.CacheEnabled)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
}

// Load reads configuration from v: defaults, then the config file named by
// the "config" key (if any), then CHANNELCHAT_* environment variables. The
// bare YOUTUBE_API_KEY and GEMINI_API_KEY variables are honoured as well.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("youtube_api_key", EnvPrefix+"_YOUTUBE_API_KEY", "YOUTUBE_API_KEY")
	_ = v.BindEnv("gemini_api_key", EnvPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY")

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid. requireChat controls
// whether the conversational model credentials are mandatory.
func (c *Config) Validate(requireChat bool) error {
	if c.YouTubeAPIKey == "" {
		return errors.New("youtube_api_key is required (set YOUTUBE_API_KEY)")
	}

	if requireChat && c.GeminiAPIKey == "" {
		return errors.New("gemini_api_key is required (set GEMINI_API_KEY)")
	}

	if c.MaxVideos < 1 {
		return fmt.Errorf("max_videos must be at least 1")
	}

	if c.TranscriptWorkers < 1 {
		return fmt.Errorf("transcript_concurrency must be at least 1")
	}

	if c.TranscriptRPS < 0 {
		return fmt.Errorf("transcript_rps cannot be negative")
	}

	if c.ContextChunkTokens < 0 {
		return fmt.Errorf("context_chunk_tokens cannot be negative")
	}

	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("provider_timeout must be positive")
	}

	if c.ChatTimeout < 0 {
		return fmt.Errorf("chat_timeout cannot be negative")
	}

	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[c.LogFormat] {
		return fmt.Errorf("invalid log_format '%s', must be one of: console, json", c.LogFormat)
	}

	return nil
}
