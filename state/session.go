// Package state holds the in-memory session and transcript cache stores.
// Both live for the lifetime of the process; nothing is persisted.
package state

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/researchaccelerator-hub/channel-chat/client"
	"github.com/researchaccelerator-hub/channel-chat/common"
)

// SessionKey derives the session id for a channel name: lowercase with
// spaces replaced by underscores.
func SessionKey(channelName string) string {
	return strings.ReplaceAll(strings.ToLower(channelName), " ", "_")
}

// Session is one primed conversation about a channel
type Session struct {
	ChannelName string
	Context     string // raw context document the session was primed with
	CreatedAt   time.Time

	handle client.ChatHandle
	mu     sync.Mutex // serializes sends on handle
}

// SessionStore maps session keys to primed conversations. Entries are never
// evicted and conversation history grows with every Send.
type SessionStore struct {
	chat        client.ChatService
	chunkTokens int

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates a store that primes sessions on chat. A context
// document larger than chunkTokens (approximate tokens) is primed over
// several messages; chunkTokens <= 0 always primes in one message.
func NewSessionStore(chat client.ChatService, chunkTokens int) *SessionStore {
	return &SessionStore{
		chat:        chat,
		chunkTokens: chunkTokens,
		sessions:    make(map[string]*Session),
	}
}

// Create primes a new conversation with contextText and stores it under
// key, replacing any previous session for that key. The entry is published
// only after priming succeeded.
func (s *SessionStore) Create(ctx context.Context, key, channelName, contextText string) error {
	logger := common.Logger(ctx).With().Str("session_id", key).Logger()

	parts := s.split(contextText)
	handle, _, err := s.chat.StartChat(ctx, BuildPrimingPrompt(channelName, parts[0]))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to start chat session")
		return common.NewUpstreamError("start chat", err)
	}

	for i := 1; i < len(parts); i++ {
		msg := BuildContinuationPrompt(channelName, i+1, len(parts), parts[i])
		if _, err := handle.SendMessage(ctx, msg); err != nil {
			logger.Error().Err(err).Int("part", i+1).Msg("Failed to send context continuation")
			return common.NewUpstreamError("prime chat", err)
		}
	}

	session := &Session{
		ChannelName: channelName,
		Context:     contextText,
		CreatedAt:   time.Now(),
		handle:      handle,
	}

	s.mu.Lock()
	_, replaced := s.sessions[key]
	s.sessions[key] = session
	s.mu.Unlock()

	logger.Info().
		Int("context_bytes", len(contextText)).
		Int("priming_messages", len(parts)).
		Bool("replaced", replaced).
		Msg("Chat session created")
	return nil
}

// split returns the context pieces to prime with. The first piece always
// exists, even for an empty context.
func (s *SessionStore) split(contextText string) []string {
	if s.chunkTokens <= 0 {
		return []string{contextText}
	}
	if len(strings.Fields(contextText)) <= common.WordsPerChunk(s.chunkTokens) {
		return []string{contextText}
	}
	return common.Chunk(contextText, s.chunkTokens)
}

// Send forwards message to the session stored under key and returns the
// reply verbatim. Unknown keys fail with common.ErrSessionNotFound.
func (s *SessionStore) Send(ctx context.Context, key, message string) (string, error) {
	session, ok := s.Get(key)
	if !ok {
		return "", common.ErrSessionNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	reply, err := session.handle.SendMessage(ctx, message)
	if err != nil {
		return "", common.NewUpstreamError("send message", err)
	}
	return reply, nil
}

// Get returns the session stored under key
func (s *SessionStore) Get(key string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[key]
	return session, ok
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
