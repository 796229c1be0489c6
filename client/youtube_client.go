package client

import (
	"context"
	"fmt"
	"time"

	youtubemodel "github.com/researchaccelerator-hub/channel-chat/model/youtube"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

// YouTubeDataClient implements the youtube.YouTubeClient interface for accessing YouTube Data API
type YouTubeDataClient struct {
	service  *ytapi.Service
	apiKey   string
	endpoint string
}

// NewYouTubeDataClient creates a new YouTube data client. An empty endpoint
// uses the public API; a non-empty one overrides it (tests, proxies).
func NewYouTubeDataClient(apiKey, endpoint string) (*YouTubeDataClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	return &YouTubeDataClient{
		apiKey:   apiKey,
		endpoint: endpoint,
	}, nil
}

// Connect establishes a connection to the YouTube API
func (c *YouTubeDataClient) Connect(ctx context.Context) error {
	log.Info().Msg("Connecting to YouTube API")

	opts := []option.ClientOption{option.WithAPIKey(c.apiKey)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}

	service, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create YouTube service")
		return fmt.Errorf("failed to create YouTube service: %w", err)
	}

	c.service = service
	log.Info().Msg("Connected to YouTube API successfully")
	return nil
}

// Disconnect closes the connection to the YouTube API
func (c *YouTubeDataClient) Disconnect(ctx context.Context) error {
	// No explicit disconnect needed for the YouTube API client
	c.service = nil
	return nil
}

// SearchChannels runs a channel-typed search for query
func (c *YouTubeDataClient) SearchChannels(ctx context.Context, query string, limit int) ([]*youtubemodel.YouTubeChannel, error) {
	if c.service == nil {
		return nil, fmt.Errorf("YouTube client not connected")
	}

	log.Debug().Str("query", query).Int("limit", limit).Msg("Searching YouTube channels")

	response, err := c.service.Search.List([]string{"snippet"}).
		Type("channel").
		Q(query).
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Failed to search channels on YouTube API")
		return nil, fmt.Errorf("failed to search channels on YouTube API: %w", err)
	}

	channels := make([]*youtubemodel.YouTubeChannel, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Snippet == nil {
			continue
		}
		channelID := item.Snippet.ChannelId
		if channelID == "" && item.Id != nil {
			channelID = item.Id.ChannelId
		}
		channels = append(channels, &youtubemodel.YouTubeChannel{
			ID:          channelID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
		})
	}

	return channels, nil
}

// ListChannelVideos fetches one page of a channel's videos, newest first
func (c *YouTubeDataClient) ListChannelVideos(ctx context.Context, channelID, pageToken string, pageSize int) (*youtubemodel.VideoPage, error) {
	if c.service == nil {
		return nil, fmt.Errorf("YouTube client not connected")
	}

	log.Debug().
		Str("channel_id", channelID).
		Str("page_token", pageToken).
		Int("page_size", pageSize).
		Msg("Fetching videos from YouTube channel")

	call := c.service.Search.List([]string{"id", "snippet"}).
		ChannelId(channelID).
		MaxResults(int64(min(youtubemodel.MaxPageSize, pageSize))).
		Type("video").
		Order("date").
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Do()
	if err != nil {
		log.Error().Err(err).Str("channel_id", channelID).Msg("Failed to get videos from YouTube API")
		return nil, fmt.Errorf("failed to get videos from YouTube API: %w", err)
	}

	page := &youtubemodel.VideoPage{
		Videos:        make([]*youtubemodel.YouTubeVideo, 0, len(response.Items)),
		NextPageToken: response.NextPageToken,
	}

	for _, item := range response.Items {
		if item.Id == nil || item.Snippet == nil {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		if err != nil {
			log.Warn().Err(err).Str("date", item.Snippet.PublishedAt).Msg("Failed to parse video published date")
		}

		page.Videos = append(page.Videos, &youtubemodel.YouTubeVideo{
			ID:          item.Id.VideoId,
			ChannelID:   channelID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			PublishedAt: publishedAt,
		})
	}

	return page, nil
}
