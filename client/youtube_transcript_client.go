package client

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	defaultWatchBaseURL = "https://www.youtube.com"

	// playerResponseMarker precedes the player JSON embedded in the watch page.
	playerResponseMarker = "ytInitialPlayerResponse = "

	maxWatchPageBytes = 6 * 1024 * 1024
	maxTimedTextBytes = 2 * 1024 * 1024

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// ErrNoTranscript means the video has no usable caption track.
var ErrNoTranscript = errors.New("no transcript available")

// TranscriptClientConfig contains configuration for the transcript client
type TranscriptClientConfig struct {
	BaseURL           string        // Default: https://www.youtube.com
	Languages         []string      // Preferred caption languages, in order. Default: ["en"]
	RequestsPerSecond float64       // Upstream request rate. <= 0 disables limiting
	HTTPTimeout       time.Duration // Default: 30s
}

// YouTubeTranscriptClient implements the youtube.TranscriptClient interface by
// reading the caption tracks advertised on a video's watch page and
// downloading the chosen track in timedtext XML form.
type YouTubeTranscriptClient struct {
	httpClient *http.Client
	baseURL    string
	languages  []string
	limiter    *rate.Limiter
}

// NewYouTubeTranscriptClient creates a transcript client
func NewYouTubeTranscriptClient(config TranscriptClientConfig) *YouTubeTranscriptClient {
	if config.BaseURL == "" {
		config.BaseURL = defaultWatchBaseURL
	}
	if len(config.Languages) == 0 {
		config.Languages = []string{"en"}
	}
	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}

	return &YouTubeTranscriptClient{
		httpClient: &http.Client{Timeout: config.HTTPTimeout},
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		languages:  config.Languages,
		limiter:    limiter,
	}
}

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

type timedText struct {
	Lines []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

// FetchTranscript returns the caption segments of videoID in playback order.
// A video without captions yields an error wrapping ErrNoTranscript.
func (c *YouTubeTranscriptClient) FetchTranscript(ctx context.Context, videoID string) ([]string, error) {
	if err := validateVideoID(videoID); err != nil {
		return nil, err
	}

	watchURL := c.baseURL + "/watch?v=" + url.QueryEscape(videoID)
	page, err := c.get(ctx, watchURL, maxWatchPageBytes)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}

	idx := bytes.Index(page, []byte(playerResponseMarker))
	if idx < 0 {
		return nil, fmt.Errorf("player response not found in watch page: %w", ErrNoTranscript)
	}
	raw := extractJSONObject(page[idx+len(playerResponseMarker):])
	if raw == nil {
		return nil, errors.New("failed to extract player response JSON")
	}

	var player playerResponse
	if err := json.Unmarshal(raw, &player); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}

	if player.Captions == nil || len(player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks) == 0 {
		if player.PlayabilityStatus != nil && player.PlayabilityStatus.Reason != "" {
			return nil, fmt.Errorf("%w: %s", ErrNoTranscript, player.PlayabilityStatus.Reason)
		}
		return nil, ErrNoTranscript
	}

	track := pickTrack(player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, c.languages)
	trackURL, err := c.resolve(track.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("caption track url: %w", err)
	}

	body, err := c.get(ctx, trackURL, maxTimedTextBytes)
	if err != nil {
		return nil, fmt.Errorf("timedtext: %w", err)
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	segments := make([]string, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := strings.TrimSpace(html.UnescapeString(line.Text))
		if text != "" {
			segments = append(segments, text)
		}
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("empty caption track: %w", ErrNoTranscript)
	}

	log.Debug().
		Str("video_id", videoID).
		Str("language", track.LanguageCode).
		Int("segments", len(segments)).
		Msg("Fetched YouTube transcript")

	return segments, nil
}

func (c *YouTubeTranscriptClient) get(ctx context.Context, rawURL string, limit int64) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

func (c *YouTubeTranscriptClient) resolve(trackURL string) (string, error) {
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(trackURL)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// pickTrack prefers a manual track in a preferred language, then an
// auto-generated one, then any English track, then the first track.
func pickTrack(tracks []captionTrack, langs []string) captionTrack {
	for _, lang := range langs {
		for _, t := range tracks {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t
			}
		}
	}
	for _, lang := range langs {
		for _, t := range tracks {
			if t.LanguageCode == lang {
				return t
			}
		}
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t
		}
	}
	return tracks[0]
}

// extractJSONObject returns the balanced JSON object at the start of b, or
// nil when b does not start with one.
func extractJSONObject(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}
