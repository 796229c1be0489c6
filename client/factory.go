package client

import (
	"context"
	"fmt"

	"github.com/researchaccelerator-hub/channel-chat/config"
)

// Clients bundles the upstream clients the pipeline depends on
type Clients struct {
	YouTube     *YouTubeDataClient
	Transcripts *YouTubeTranscriptClient
	Chat        *GeminiChatService
}

// NewClients creates and connects every upstream client described by cfg.
// The chat service is skipped when skipChat is set (transcript export only).
func NewClients(ctx context.Context, cfg *config.Config, skipChat bool) (*Clients, error) {
	yt, err := NewYouTubeDataClient(cfg.YouTubeAPIKey, cfg.YouTubeEndpoint)
	if err != nil {
		return nil, err
	}
	if err := yt.Connect(ctx); err != nil {
		return nil, err
	}

	clients := &Clients{
		YouTube: yt,
		Transcripts: NewYouTubeTranscriptClient(TranscriptClientConfig{
			BaseURL:           cfg.TranscriptBaseURL,
			Languages:         cfg.TranscriptLanguages,
			RequestsPerSecond: cfg.TranscriptRPS,
			HTTPTimeout:       cfg.ProviderTimeout,
		}),
	}

	if skipChat {
		return clients, nil
	}

	chat, err := NewGeminiChatService(ctx, GeminiConfig{
		APIKey:          cfg.GeminiAPIKey,
		Model:           cfg.GeminiModel,
		Temperature:     cfg.Temperature,
		TopP:            cfg.TopP,
		TopK:            cfg.TopK,
		MaxOutputTokens: cfg.MaxOutputTokens,
		RequestTimeout:  cfg.ChatTimeout,
	})
	if err != nil {
		_ = yt.Disconnect(ctx)
		return nil, fmt.Errorf("chat service: %w", err)
	}
	clients.Chat = chat

	return clients, nil
}

// Close releases every client
func (c *Clients) Close(ctx context.Context) error {
	if c.YouTube != nil {
		_ = c.YouTube.Disconnect(ctx)
	}
	if c.Chat != nil {
		return c.Chat.Close()
	}
	return nil
}
