package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/researchaccelerator-hub/channel-chat/common"
	youtubemodel "github.com/researchaccelerator-hub/channel-chat/model/youtube"
	"github.com/researchaccelerator-hub/channel-chat/state"
	"github.com/rs/zerolog/log"
)

// ContextDocument is the result of one ingestion run
type ContextDocument struct {
	Channel *youtubemodel.YouTubeChannel
	Entries []Entry
	Text    string
}

// PipelineConfig holds the tunables of an ingestion run
type PipelineConfig struct {
	MaxVideos       int
	Concurrency     int
	ProviderTimeout time.Duration
	CacheEnabled    bool
}

// Pipeline wires the ingestion components to the session store and cache
type Pipeline struct {
	resolver  *ChannelResolver
	lister    *VideoLister
	fetcher   *TranscriptFetcher
	assembler *ContextAssembler
	sessions  *state.SessionStore
	cache     *state.TranscriptCache
	config    PipelineConfig
}

// NewPipeline creates a pipeline. cache may be nil, which disables caching.
func NewPipeline(
	youtube youtubemodel.YouTubeClient,
	transcripts youtubemodel.TranscriptClient,
	sessions *state.SessionStore,
	cache *state.TranscriptCache,
	config PipelineConfig,
) *Pipeline {
	if !config.CacheEnabled {
		cache = nil
	}
	return &Pipeline{
		resolver:  NewChannelResolver(youtube, config.ProviderTimeout),
		lister:    NewVideoLister(youtube, config.ProviderTimeout),
		fetcher:   NewTranscriptFetcher(transcripts, config.ProviderTimeout),
		assembler: &ContextAssembler{Concurrency: config.Concurrency},
		sessions:  sessions,
		cache:     cache,
		config:    config,
	}
}

// ProcessChannel ingests channelName and seeds a chat session with the
// result. It returns the session id clients use to chat.
func (p *Pipeline) ProcessChannel(ctx context.Context, channelName string) (string, error) {
	channelName = strings.TrimSpace(channelName)
	if channelName == "" {
		return "", fmt.Errorf("channel name cannot be empty")
	}

	ctx = withIngestLogger(ctx, channelName)
	logger := common.Logger(ctx)
	started := time.Now()

	contextText, cached := p.cached(channelName)
	if cached {
		logger.Info().Msg("Using cached channel context")
	} else {
		doc, err := p.buildContext(ctx, channelName)
		if err != nil {
			logger.Error().Err(err).Msg("Channel ingestion failed")
			return "", err
		}
		contextText = doc.Text
		if p.cache != nil {
			p.cache.Set(channelName, contextText)
		}
	}

	sessionID := state.SessionKey(channelName)
	if err := p.sessions.Create(ctx, sessionID, channelName, contextText); err != nil {
		logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to create chat session")
		return "", err
	}

	logger.Info().
		Str("session_id", sessionID).
		Bool("cached", cached).
		Dur("duration", time.Since(started)).
		Msg("Channel processed successfully")

	return sessionID, nil
}

// BuildContext resolves channelName, lists its latest videos and assembles
// their transcripts. It never touches the session store or the cache.
func (p *Pipeline) BuildContext(ctx context.Context, channelName string) (*ContextDocument, error) {
	channelName = strings.TrimSpace(channelName)
	if channelName == "" {
		return nil, fmt.Errorf("channel name cannot be empty")
	}
	return p.buildContext(withIngestLogger(ctx, channelName), channelName)
}

func (p *Pipeline) buildContext(ctx context.Context, channelName string) (*ContextDocument, error) {
	channel, err := p.resolver.Resolve(ctx, channelName)
	if err != nil {
		return nil, err
	}

	videos, err := p.lister.List(ctx, channel.ID, p.config.MaxVideos)
	if err != nil {
		return nil, err
	}

	entries := p.assembler.AssembleEntries(ctx, channelName, videos, p.fetcher.Fetch)
	return &ContextDocument{
		Channel: channel,
		Entries: entries,
		Text:    Render(entries),
	}, nil
}

func (p *Pipeline) cached(channelName string) (string, bool) {
	if p.cache == nil {
		return "", false
	}
	return p.cache.Get(channelName)
}

func withIngestLogger(ctx context.Context, channelName string) context.Context {
	logger := log.With().
		Str("ingest_id", uuid.New().String()).
		Str("channel_name", channelName).
		Logger()
	return logger.WithContext(ctx)
}
