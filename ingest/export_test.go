package ingest

import (
	"bytes"
	"strings"
	"testing"
	"time"

	youtubemodel "github.com/researchaccelerator-hub/channel-chat/model/youtube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTranscripts(t *testing.T) {
	published := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		{
			Video:      &youtubemodel.YouTubeVideo{ID: "vid1aaaaaaa", Title: "Vid1", PublishedAt: published},
			Transcript: "hello world",
			Present:    true,
		},
		{
			Video: &youtubemodel.YouTubeVideo{ID: "vid2aaaaaaa", Title: "Vid2"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTranscripts(&buf, entries))
	out := buf.String()

	assert.Contains(t, out, "Video: Vid1\nID: vid1aaaaaaa\nPublished: 2024-03-01T12:00:00Z\nTranscript:\nhello world\n")
	assert.Contains(t, out, "Video: Vid2\nID: vid2aaaaaaa\nPublished: \nNo transcript available.\n")
	assert.Equal(t, 2, strings.Count(out, strings.Repeat("=", 50)))
	assert.Less(t, strings.Index(out, "Vid1"), strings.Index(out, "Vid2"))
}

func TestWriteTranscripts_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTranscripts(&buf, nil))
	assert.Empty(t, buf.String())
}
