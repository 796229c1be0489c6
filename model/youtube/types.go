// Package youtube contains YouTube-specific data models
package youtube

import (
	"context"
	"time"
)

// YouTubeChannel represents a YouTube channel resolved from a display name
type YouTubeChannel struct {
	ID          string
	Title       string
	Description string
}

// YouTubeVideo represents a YouTube video
type YouTubeVideo struct {
	ID          string
	ChannelID   string
	Title       string
	Description string
	PublishedAt time.Time
}

// VideoPage is one page of a channel's videos, newest first
type VideoPage struct {
	Videos        []*YouTubeVideo
	NextPageToken string
}

// MaxPageSize is the largest page the YouTube Data API will return.
const MaxPageSize = 50

// YouTubeClient defines the methods needed for YouTube Data API lookups
type YouTubeClient interface {
	// SearchChannels returns up to limit channels matching query
	SearchChannels(ctx context.Context, query string, limit int) ([]*YouTubeChannel, error)

	// ListChannelVideos fetches a single page of a channel's videos ordered by date
	ListChannelVideos(ctx context.Context, channelID, pageToken string, pageSize int) (*VideoPage, error)
}

// TranscriptClient fetches caption segments for a video
type TranscriptClient interface {
	// FetchTranscript returns the text segments of a video's captions in order
	FetchTranscript(ctx context.Context, videoID string) ([]string, error)
}
