package ingest

import (
	"context"
	"time"

	"github.com/researchaccelerator-hub/channel-chat/common"
	youtubemodel "github.com/researchaccelerator-hub/channel-chat/model/youtube"
)

// DefaultMaxVideos is the number of videos listed when no count is given.
const DefaultMaxVideos = 5

// VideoLister pages through a channel's videos, newest first
type VideoLister struct {
	client  youtubemodel.YouTubeClient
	timeout time.Duration
}

// NewVideoLister creates a lister. timeout bounds each page request.
func NewVideoLister(client youtubemodel.YouTubeClient, timeout time.Duration) *VideoLister {
	return &VideoLister{client: client, timeout: timeout}
}

// List returns up to maxResults of the channel's most recent videos in
// provider order. Any page failure aborts the listing with a
// *common.UpstreamError and no partial result.
func (l *VideoLister) List(ctx context.Context, channelID string, maxResults int) ([]*youtubemodel.YouTubeVideo, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxVideos
	}

	videos := make([]*youtubemodel.YouTubeVideo, 0, maxResults)
	pageToken := ""
	pages := 0

	for len(videos) < maxResults {
		pageSize := min(youtubemodel.MaxPageSize, maxResults-len(videos))

		page, err := l.fetchPage(ctx, channelID, pageToken, pageSize)
		if err != nil {
			return nil, common.NewUpstreamError("error getting channel videos", err)
		}
		pages++

		for _, video := range page.Videos {
			videos = append(videos, video)
			if len(videos) == maxResults {
				break
			}
		}

		if page.NextPageToken == "" || len(page.Videos) == 0 {
			break
		}
		pageToken = page.NextPageToken
	}

	common.Logger(ctx).Info().
		Str("channel_id", channelID).
		Int("video_count", len(videos)).
		Int("pages", pages).
		Msg("Retrieved videos from YouTube channel")

	return videos, nil
}

func (l *VideoLister) fetchPage(ctx context.Context, channelID, pageToken string, pageSize int) (*youtubemodel.VideoPage, error) {
	callCtx, cancel := withTimeout(ctx, l.timeout)
	defer cancel()
	return l.client.ListChannelVideos(callCtx, channelID, pageToken, pageSize)
}
