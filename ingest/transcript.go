package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/researchaccelerator-hub/channel-chat/common"
	youtubemodel "github.com/researchaccelerator-hub/channel-chat/model/youtube"
)

// TranscriptFetcher retrieves and normalizes one video's transcript
type TranscriptFetcher struct {
	client  youtubemodel.TranscriptClient
	timeout time.Duration
}

// NewTranscriptFetcher creates a fetcher. timeout bounds each video's fetch.
func NewTranscriptFetcher(client youtubemodel.TranscriptClient, timeout time.Duration) *TranscriptFetcher {
	return &TranscriptFetcher{client: client, timeout: timeout}
}

// Fetch returns the normalized transcript of videoID. Any failure, including
// a video without captions, is logged and reported as absent (false); it is
// never returned as an error so one video cannot abort a batch.
func (f *TranscriptFetcher) Fetch(ctx context.Context, videoID string) (string, bool) {
	callCtx, cancel := withTimeout(ctx, f.timeout)
	defer cancel()

	segments, err := f.client.FetchTranscript(callCtx, videoID)
	if err != nil {
		common.Logger(ctx).Warn().Err(err).Str("video_id", videoID).Msg("Error fetching transcript")
		return "", false
	}

	text := common.Normalize(strings.Join(segments, " "))
	if text == "" {
		common.Logger(ctx).Warn().Str("video_id", videoID).Msg("Transcript empty after normalization")
		return "", false
	}

	return text, true
}
