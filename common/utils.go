// Package common holds text utilities, the error taxonomy and small helpers
// shared by the ingestion pipeline, the session layer and the CLI.
package common

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// GenerateRunID generates an identifier based on the current timestamp,
// formatted as "YYYYMMDDHHMMSS". Used to stamp exported transcript files.
func GenerateRunID() string {
	return time.Now().Format("20060102150405")
}

// ReadChannelNamesFromFile reads channel names from a file, one per line.
// It ignores empty lines and lines starting with a '#' character (comments).
func ReadChannelNamesFromFile(filename string) ([]string, error) {
	log.Debug().Str("filename", filename).Msg("Reading channel names from file")

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	var names []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			names = append(names, line)
		}
	}

	log.Debug().Int("channel_count", len(names)).Msg("Channel names read from file")
	return names, nil
}
