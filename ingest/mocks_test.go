package ingest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/researchaccelerator-hub/channel-chat/client"
	youtubemodel "github.com/researchaccelerator-hub/channel-chat/model/youtube"
	"github.com/stretchr/testify/mock"
)

// MockYouTubeClient is a mock implementation of youtube.YouTubeClient
type MockYouTubeClient struct {
	mock.Mock
}

func (m *MockYouTubeClient) SearchChannels(ctx context.Context, query string, limit int) ([]*youtubemodel.YouTubeChannel, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*youtubemodel.YouTubeChannel), args.Error(1)
}

func (m *MockYouTubeClient) ListChannelVideos(ctx context.Context, channelID, pageToken string, pageSize int) (*youtubemodel.VideoPage, error) {
	args := m.Called(ctx, channelID, pageToken, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*youtubemodel.VideoPage), args.Error(1)
}

// MockTranscriptClient is a mock implementation of youtube.TranscriptClient
type MockTranscriptClient struct {
	mock.Mock
}

func (m *MockTranscriptClient) FetchTranscript(ctx context.Context, videoID string) ([]string, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// echoChat answers every message with a fixed prefix and the turn number,
// recording the priming message it was started with.
type echoChat struct {
	mu      sync.Mutex
	primers []string
}

func (c *echoChat) StartChat(ctx context.Context, primingMessage string) (client.ChatHandle, string, error) {
	c.mu.Lock()
	c.primers = append(c.primers, primingMessage)
	c.mu.Unlock()
	h := &echoHandle{}
	reply, err := h.SendMessage(ctx, primingMessage)
	return h, reply, err
}

func (c *echoChat) lastPrimer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.primers) == 0 {
		return ""
	}
	return c.primers[len(c.primers)-1]
}

type echoHandle struct {
	turns int
}

func (h *echoHandle) SendMessage(ctx context.Context, message string) (string, error) {
	h.turns++
	return fmt.Sprintf("turn %d: %s", h.turns, strings.SplitN(message, "\n", 2)[0]), nil
}

func videos(titles ...string) []*youtubemodel.YouTubeVideo {
	out := make([]*youtubemodel.YouTubeVideo, 0, len(titles))
	for i, title := range titles {
		out = append(out, &youtubemodel.YouTubeVideo{
			ID:    fmt.Sprintf("vid%08d", i+1),
			Title: title,
		})
	}
	return out
}
