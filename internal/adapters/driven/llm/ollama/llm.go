// Package ollama answers questions with a model served by a local Ollama.
package ollama

import (
	"context"
	"time"

	"github.com/custodia-labs/ragindex/internal/adapters/driven/ollamaapi"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

// Defaults applied by NewLLMService.
const (
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig configures LLMService. Zero values select the defaults above
// and ollamaapi.DefaultBaseURL.
type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService completes requests through the /api/chat endpoint.
type LLMService struct {
	api   *ollamaapi.Client
	model string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *chatOptions  `json:"options,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// NewLLMService creates an Ollama-backed LLM service.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	return &LLMService{
		api:   ollamaapi.New(cfg.BaseURL, cfg.Timeout),
		model: cfg.Model,
	}
}

// Complete sends the system instructions and prompt as a non-streaming chat.
func (s *LLMService) Complete(ctx context.Context, req driven.CompletionRequest) (string, error) {
	chat := chatRequest{
		Model:    s.model,
		Messages: toMessages(req),
	}
	if req.MaxTokens > 0 || req.Temperature > 0 {
		chat.Options = &chatOptions{NumPredict: req.MaxTokens, Temperature: req.Temperature}
	}

	var resp chatResponse
	if err := s.api.Post(ctx, "/api/chat", chat, &resp); err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

func toMessages(req driven.CompletionRequest) []chatMessage {
	msgs := make([]chatMessage, 0, 2)
	if req.System != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: req.System})
	}
	return append(msgs, chatMessage{Role: "user", Content: req.Prompt})
}

// ModelName returns the model identifier.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks the server answers and the model is pulled.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.CheckModel(ctx, s.model)
}

// Close releases resources. The HTTP client needs none.
func (s *LLMService) Close() error {
	return nil
}
