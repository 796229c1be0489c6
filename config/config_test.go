package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.YouTubeAPIKey = "yt-key"
	cfg.GeminiAPIKey = "gemini-key"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":8000", cfg.ListenAddr)
	assert.Equal(t, 5, cfg.MaxVideos)
	assert.Equal(t, 1, cfg.TranscriptWorkers)
	assert.Equal(t, "gemini-1.5-pro", cfg.GeminiModel)
	assert.Equal(t, int32(8192), cfg.MaxOutputTokens)
	assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		requireChat bool
		wantErr     string
	}{
		{name: "valid", mutate: func(*Config) {}, requireChat: true},
		{name: "missing youtube key", mutate: func(c *Config) { c.YouTubeAPIKey = "" }, wantErr: "youtube_api_key"},
		{name: "missing gemini key for chat", mutate: func(c *Config) { c.GeminiAPIKey = "" }, requireChat: true, wantErr: "gemini_api_key"},
		{name: "missing gemini key for export only", mutate: func(c *Config) { c.GeminiAPIKey = "" }, requireChat: false},
		{name: "zero max videos", mutate: func(c *Config) { c.MaxVideos = 0 }, wantErr: "max_videos"},
		{name: "zero workers", mutate: func(c *Config) { c.TranscriptWorkers = 0 }, wantErr: "transcript_concurrency"},
		{name: "negative rps", mutate: func(c *Config) { c.TranscriptRPS = -1 }, wantErr: "transcript_rps"},
		{name: "negative chunk tokens", mutate: func(c *Config) { c.ContextChunkTokens = -1 }, wantErr: "context_chunk_tokens"},
		{name: "zero timeout", mutate: func(c *Config) { c.ProviderTimeout = 0 }, wantErr: "provider_timeout"},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate(tt.requireChat)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig().ListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultConfig().MaxVideos, cfg.MaxVideos)
	assert.Equal(t, DefaultConfig().ProviderTimeout, cfg.ProviderTimeout)
	assert.InDelta(t, 0.9, cfg.Temperature, 0.0001)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "channelchat.yaml")
	yaml := []byte("max_videos: 12\nprovider_timeout: 5s\ngemini_model: gemini-test\nlog_format: json\n")
	require.NoError(t, os.WriteFile(path, yaml, 0o644))

	t.Setenv("YOUTUBE_API_KEY", "from-bare-env")
	t.Setenv("CHANNELCHAT_GEMINI_API_KEY", "from-prefixed-env")
	t.Setenv("CHANNELCHAT_TRANSCRIPT_CONCURRENCY", "3")

	v := viper.New()
	v.Set("config", path)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.MaxVideos)
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, "gemini-test", cfg.GeminiModel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "from-bare-env", cfg.YouTubeAPIKey)
	assert.Equal(t, "from-prefixed-env", cfg.GeminiAPIKey)
	assert.Equal(t, 3, cfg.TranscriptWorkers)
	assert.NoError(t, cfg.Validate(true))
}

func TestLoad_MissingFile(t *testing.T) {
	v := viper.New()
	v.Set("config", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
