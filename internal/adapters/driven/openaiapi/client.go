// Package openaiapi builds the OpenAI client shared by the embedding and
// LLM adapters. Any OpenAI-compatible endpoint works through BaseURL.
package openaiapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultMaxRetries = 2
)

// ErrMissingAPIKey is returned by NewClient without a key.
var ErrMissingAPIKey = errors.New("openai: API key is required")

// Options configure a client. Zero values select the defaults and a
// negative MaxRetries disables retries. Timeout has no default.
type Options struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// NewClient builds an OpenAI client from o.
func NewClient(o Options) (openai.Client, error) {
	if o.APIKey == "" {
		return openai.Client{}, ErrMissingAPIKey
	}
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	switch {
	case o.MaxRetries == 0:
		o.MaxRetries = DefaultMaxRetries
	case o.MaxRetries < 0:
		o.MaxRetries = 0
	}

	return openai.NewClient(
		option.WithAPIKey(o.APIKey),
		option.WithBaseURL(o.BaseURL),
		option.WithHTTPClient(&http.Client{Timeout: o.Timeout}),
		option.WithMaxRetries(o.MaxRetries),
	), nil
}

// CheckModel retrieves model, which fails on a bad key as well as on a
// model the account cannot use. No tokens are spent.
func CheckModel(ctx context.Context, client openai.Client, model string) error {
	if _, err := client.Models.Get(ctx, model); err != nil {
		return fmt.Errorf("openai: model %s: %w", model, Describe(err))
	}
	return nil
}

// Describe puts the HTTP status of an API error in front of its message.
func Describe(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("status %d: %w", apiErr.StatusCode, err)
	}
	return err
}
