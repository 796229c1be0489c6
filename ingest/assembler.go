package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/researchaccelerator-hub/channel-chat/common"
	youtubemodel "github.com/researchaccelerator-hub/channel-chat/model/youtube"
	"golang.org/x/sync/errgroup"
)

// FetchFunc fetches one video's transcript; ok is false when absent.
type FetchFunc func(ctx context.Context, videoID string) (transcript string, ok bool)

// Entry is the transcript outcome for one video
type Entry struct {
	Video      *youtubemodel.YouTubeVideo
	Transcript string
	Present    bool
}

// ContextAssembler concatenates per-video transcripts into one document
type ContextAssembler struct {
	// Concurrency bounds parallel transcript fetches. Values below 2 fetch
	// one video at a time in order.
	Concurrency int
}

// AssembleEntries fetches every video's transcript and returns the outcomes
// in video order, absent transcripts included.
func (a *ContextAssembler) AssembleEntries(ctx context.Context, channelName string, videos []*youtubemodel.YouTubeVideo, fetch FetchFunc) []Entry {
	entries := make([]Entry, len(videos))

	if a.Concurrency < 2 {
		for i, video := range videos {
			text, ok := fetch(ctx, video.ID)
			entries[i] = Entry{Video: video, Transcript: text, Present: ok}
		}
	} else {
		var g errgroup.Group
		g.SetLimit(a.Concurrency)
		for i, video := range videos {
			i, video := i, video
			g.Go(func() error {
				text, ok := fetch(ctx, video.ID)
				entries[i] = Entry{Video: video, Transcript: text, Present: ok}
				return nil
			})
		}
		_ = g.Wait()
	}

	present := 0
	for _, e := range entries {
		if e.Present {
			present++
		}
	}
	logger := common.Logger(ctx)
	if present == 0 && len(videos) > 0 {
		logger.Warn().Str("channel_name", channelName).Int("video_count", len(videos)).Msg("No transcripts available for channel")
	} else {
		logger.Info().
			Str("channel_name", channelName).
			Int("video_count", len(videos)).
			Int("transcript_count", present).
			Msg("Assembled channel context")
	}

	return entries
}

// Assemble builds the context document for videos. Only videos with a
// transcript contribute a block; an empty result is valid.
func (a *ContextAssembler) Assemble(ctx context.Context, channelName string, videos []*youtubemodel.YouTubeVideo, fetch FetchFunc) string {
	return Render(a.AssembleEntries(ctx, channelName, videos, fetch))
}

// Render formats entries as "\nVideo: <title>\n<transcript>\n" blocks in
// order, skipping absent transcripts.
func Render(entries []Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		if !e.Present {
			continue
		}
		fmt.Fprintf(&sb, "\nVideo: %s\n%s\n", e.Video.Title, e.Transcript)
	}
	return sb.String()
}
