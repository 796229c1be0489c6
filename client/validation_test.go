package client

import (
	"testing"
)

func TestValidateVideoID(t *testing.T) {
	tests := []struct {
		name    string
		videoID string
		wantErr bool
	}{
		// Valid cases
		{"valid video ID", "dQw4w9WgXcQ", false},
		{"valid with underscore", "abc_def_ghi", false},
		{"valid with dash", "abc-def-ghi", false},

		// Invalid cases
		{"empty", "", true},
		{"too short", "abc", true},
		{"too long", "dQw4w9WgXcQX", true},
		{"path traversal", "../../etc/p", true},
		{"query injection", "abc&lang=xx", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateVideoID(tt.videoID)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateVideoID(%q) error = %v, wantErr %v", tt.videoID, err, tt.wantErr)
			}
		})
	}
}
