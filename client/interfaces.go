package client

import (
	"context"
)

// ChatService starts stateful conversations on a generative model
type ChatService interface {
	// StartChat opens a new conversation and sends primingMessage as its
	// very first turn. The model's reply to the priming turn is returned.
	StartChat(ctx context.Context, primingMessage string) (ChatHandle, string, error)
}

// ChatHandle is one open conversation. History lives on the service side
// and grows with every SendMessage; nothing prunes it.
type ChatHandle interface {
	// SendMessage appends message to the conversation and returns the reply text
	SendMessage(ctx context.Context, message string) (string, error)
}
