// Package ingest turns a channel name into a context document: it resolves
// the channel, lists its latest videos, fetches their transcripts and
// assembles them, then hands the result to the session store.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/researchaccelerator-hub/channel-chat/common"
	youtubemodel "github.com/researchaccelerator-hub/channel-chat/model/youtube"
)

// ChannelResolver maps a human-readable channel name to a channel
type ChannelResolver struct {
	client  youtubemodel.YouTubeClient
	timeout time.Duration
}

// NewChannelResolver creates a resolver. timeout bounds each provider call;
// zero means no bound beyond ctx.
func NewChannelResolver(client youtubemodel.YouTubeClient, timeout time.Duration) *ChannelResolver {
	return &ChannelResolver{client: client, timeout: timeout}
}

// Resolve returns the first channel matching name. No match fails with
// common.ErrNotFound; a failed lookup fails with a *common.UpstreamError.
// Nothing is retried.
func (r *ChannelResolver) Resolve(ctx context.Context, name string) (*youtubemodel.YouTubeChannel, error) {
	callCtx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	channels, err := r.client.SearchChannels(callCtx, name, 1)
	if err != nil {
		return nil, common.NewUpstreamError("error getting channel ID", err)
	}

	if len(channels) == 0 || channels[0].ID == "" {
		return nil, fmt.Errorf("channel '%s': %w", name, common.ErrNotFound)
	}

	common.Logger(ctx).Info().
		Str("channel_name", name).
		Str("channel_id", channels[0].ID).
		Str("title", channels[0].Title).
		Msg("Resolved YouTube channel")

	return channels[0], nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
