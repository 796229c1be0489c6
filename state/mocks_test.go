package state

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/researchaccelerator-hub/channel-chat/client"
	"github.com/stretchr/testify/mock"
)

// MockChatService mocks client.ChatService
type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) StartChat(ctx context.Context, primingMessage string) (client.ChatHandle, string, error) {
	args := m.Called(ctx, primingMessage)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(client.ChatHandle), args.String(1), args.Error(2)
}

// MockChatHandle mocks client.ChatHandle
type MockChatHandle struct {
	mock.Mock
}

func (m *MockChatHandle) SendMessage(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

// echoChatService is a deterministic in-memory chat service. Each handle
// records its history and answers with the priming message's first line
// and the number of turns seen so far.
type echoChatService struct {
	mu      sync.Mutex
	handles []*echoHandle
}

func (s *echoChatService) StartChat(ctx context.Context, primingMessage string) (client.ChatHandle, string, error) {
	h := &echoHandle{}
	s.mu.Lock()
	s.handles = append(s.handles, h)
	s.mu.Unlock()

	reply, err := h.SendMessage(ctx, primingMessage)
	return h, reply, err
}

type echoHandle struct {
	mu      sync.Mutex
	history []string
}

func (h *echoHandle) SendMessage(_ context.Context, message string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.history = append(h.history, message)
	first, _, _ := strings.Cut(h.history[0], "\n")
	return fmt.Sprintf("%s | turn %d", first, len(h.history)), nil
}

func (h *echoHandle) History() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.history...)
}
