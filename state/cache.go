package state

import (
	"sync"
)

// TranscriptCache maps raw channel names to assembled context documents.
// It has no TTL and no size bound.
type TranscriptCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewTranscriptCache creates an empty cache
func NewTranscriptCache() *TranscriptCache {
	return &TranscriptCache{entries: make(map[string]string)}
}

// Get returns the cached context for channelName
func (c *TranscriptCache) Get(channelName string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	text, ok := c.entries[channelName]
	return text, ok
}

// Set stores text for channelName, replacing any previous entry
func (c *TranscriptCache) Set(channelName, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[channelName] = text
}

// Clear removes the given channels, or every entry when none are given
func (c *TranscriptCache) Clear(channelNames ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(channelNames) == 0 {
		clear(c.entries)
		return
	}
	for _, name := range channelNames {
		delete(c.entries, name)
	}
}

// Len returns the number of cached channels
func (c *TranscriptCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
