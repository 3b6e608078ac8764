// Package llm is the provider-neutral chat interface used for content
// suggestions. Providers live under pkg/ai/providers.
package llm

import "context"

// LLM completes a chat conversation.
type LLM interface {
	Chat(ctx context.Context, messages []Message, opts ...Option) (Response, error)
}

// ChatOptions are the generation settings of one call. Zero values mean
// "provider default".
type ChatOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int
	TopP        float32
	Stop        []string
}

// Option mutates ChatOptions.
type Option func(*ChatOptions)

// DefaultOptions returns empty options; providers fill in their model.
func DefaultOptions() *ChatOptions {
	return &ChatOptions{}
}

// Apply returns base with opts applied.
func Apply(base *ChatOptions, opts ...Option) *ChatOptions {
	for _, opt := range opts {
		opt(base)
	}
	return base
}

func WithModel(model string) Option {
	return func(o *ChatOptions) { o.Model = model }
}

func WithTemperature(t float32) Option {
	return func(o *ChatOptions) { o.Temperature = t }
}

func WithMaxTokens(n int) Option {
	return func(o *ChatOptions) { o.MaxTokens = n }
}

func WithTopP(p float32) Option {
	return func(o *ChatOptions) { o.TopP = p }
}

func WithStop(stop ...string) Option {
	return func(o *ChatOptions) { o.Stop = stop }
}
