// Package aianthropic implements llm.LLM with the Anthropic Messages API.
package aianthropic

import (
	"context"
	"os"
	"strings"

	"github.com/Abraxas-365/certmailer/pkg/ai/llm"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel is used when neither the constructor nor an option sets one.
const DefaultModel = "claude-sonnet-4-20250514"

const defaultMaxTokens = 1024

// AnthropicProvider implements the LLM interface for Anthropic Claude
type AnthropicProvider struct {
	client anthropic.Client
	apiKey string
	model  string
}

var _ llm.LLM = (*AnthropicProvider)(nil)

// NewAnthropicProvider creates a new Anthropic provider. An empty apiKey
// falls back to ANTHROPIC_API_KEY.
func NewAnthropicProvider(apiKey, model string, opts ...option.RequestOption) *AnthropicProvider {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if model == "" {
		model = DefaultModel
	}

	options := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)

	return &AnthropicProvider{
		client: anthropic.NewClient(options...),
		apiKey: apiKey,
		model:  model,
	}
}

// Chat implements the LLM interface
func (p *AnthropicProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (llm.Response, error) {
	if p.apiKey == "" {
		return llm.Response{}, errorRegistry.New(ErrMissingAPIKey)
	}

	options := llm.DefaultOptions()
	options.Model = p.model
	llm.Apply(options, opts...)

	system, rest := llm.SplitSystem(messages)
	if len(rest) == 0 {
		return llm.Response{}, errorRegistry.New(ErrEmptyMessages)
	}

	converted := make([]anthropic.MessageParam, 0, len(rest))
	for i, msg := range rest {
		block := anthropic.NewTextBlock(msg.Content)
		switch msg.Role {
		case llm.RoleUser:
			converted = append(converted, anthropic.NewUserMessage(block))
		case llm.RoleAssistant:
			converted = append(converted, anthropic.NewAssistantMessage(block))
		default:
			return llm.Response{}, errorRegistry.New(ErrUnsupportedRole).
				WithDetail("message_index", i).
				WithDetail("role", msg.Role)
		}
	}

	maxTokens := int64(defaultMaxTokens)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(options.Model),
		MaxTokens: maxTokens,
		Messages:  converted,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if options.Temperature != 0 {
		params.Temperature = anthropic.Float(float64(options.Temperature))
	}
	if options.TopP != 0 {
		params.TopP = anthropic.Float(float64(options.TopP))
	}
	if len(options.Stop) > 0 {
		params.StopSequences = options.Stop
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return llm.Response{}, ParseAnthropicError(err).
			WithDetail("model", options.Model).
			WithDetail("num_messages", len(messages))
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return llm.Response{
		Message: llm.NewAssistantMessage(text.String()),
		Usage: llm.Usage{
			PromptTokens:     int(message.Usage.InputTokens),
			CompletionTokens: int(message.Usage.OutputTokens),
			TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
		},
		Model: string(message.Model),
	}, nil
}
