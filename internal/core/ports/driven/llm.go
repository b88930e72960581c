package driven

import "context"

// LLMService completes chat-style requests. It is optional: when nil,
// question answering is disabled and retrieval keeps working.
type LLMService interface {
	// Complete returns the model's reply to req.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// ModelName returns the configured model.
	ModelName() string

	// Ping checks the backend is reachable without running inference.
	Ping(ctx context.Context) error

	Close() error
}

// CompletionRequest is a single-turn exchange: instructions for the model
// and the user message they apply to.
type CompletionRequest struct {
	// System holds the instructions. Empty means none.
	System string

	// Prompt is the user message.
	Prompt string

	// MaxTokens caps the reply length. Zero leaves the backend default.
	MaxTokens int

	// Temperature is the sampling temperature. Zero leaves the backend default.
	Temperature float64
}
