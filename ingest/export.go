package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

var entrySeparator = strings.Repeat("=", 50)

// WriteTranscripts writes a human-readable dump of entries, one section per
// video, including videos without a transcript.
func WriteTranscripts(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		published := ""
		if !e.Video.PublishedAt.IsZero() {
			published = e.Video.PublishedAt.UTC().Format(time.RFC3339)
		}

		fmt.Fprintf(bw, "Video: %s\n", e.Video.Title)
		fmt.Fprintf(bw, "ID: %s\n", e.Video.ID)
		fmt.Fprintf(bw, "Published: %s\n", published)
		if e.Present {
			fmt.Fprintf(bw, "Transcript:\n%s\n", e.Transcript)
		} else {
			fmt.Fprint(bw, "No transcript available.\n")
		}
		fmt.Fprintf(bw, "\n%s\n\n", entrySeparator)
	}
	return bw.Flush()
}
