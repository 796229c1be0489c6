package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// GeminiConfig contains generation settings for the Gemini chat service
type GeminiConfig struct {
	APIKey          string
	Model           string        // Default: gemini-1.5-pro
	Temperature     float32       // Default: 0.9
	TopP            float32       // Default: 0.95
	TopK            int32         // Default: 64
	MaxOutputTokens int32         // Default: 8192
	RequestTimeout  time.Duration // Bound on each message round trip, 0 = none
}

// GeminiChatService implements ChatService on top of Gemini chat sessions
type GeminiChatService struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

// NewGeminiChatService creates a Gemini-backed chat service
func NewGeminiChatService(ctx context.Context, config GeminiConfig, opts ...option.ClientOption) (*GeminiChatService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if config.Model == "" {
		config.Model = "gemini-1.5-pro"
	}

	log.Info().Str("model", config.Model).Msg("Creating Gemini chat service")

	opts = append([]option.ClientOption{option.WithAPIKey(config.APIKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(config.Model)
	if config.Temperature > 0 {
		model.SetTemperature(config.Temperature)
	}
	if config.TopP > 0 {
		model.SetTopP(config.TopP)
	}
	if config.TopK > 0 {
		model.SetTopK(config.TopK)
	}
	if config.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(config.MaxOutputTokens)
	}

	return &GeminiChatService{client: client, model: model, timeout: config.RequestTimeout}, nil
}

// StartChat opens a chat session and sends the priming message
func (s *GeminiChatService) StartChat(ctx context.Context, primingMessage string) (ChatHandle, string, error) {
	handle := &geminiChatHandle{session: s.model.StartChat(), timeout: s.timeout}

	reply, err := handle.SendMessage(ctx, primingMessage)
	if err != nil {
		return nil, "", fmt.Errorf("failed to prime chat session: %w", err)
	}

	return handle, reply, nil
}

// Close releases the underlying Gemini client
func (s *GeminiChatService) Close() error {
	return s.client.Close()
}

type geminiChatHandle struct {
	session *genai.ChatSession
	timeout time.Duration
}

func (h *geminiChatHandle) SendMessage(ctx context.Context, message string) (string, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	resp, err := h.session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

// responseText concatenates the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("empty response from Gemini")
	}

	cand := resp.Candidates[0]
	if cand.Content == nil {
		return "", fmt.Errorf("Gemini returned no content (finish reason %s)", cand.FinishReason)
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}
