// Package aigemini implements llm.LLM with Google Gemini, through either the
// Gemini API or Vertex AI.
package aigemini

import (
	"context"
	"os"
	"strings"

	"github.com/Abraxas-365/certmailer/pkg/ai/llm"
	"google.golang.org/genai"
)

// DefaultModel is used when neither the constructor nor an option sets one.
const DefaultModel = "gemini-2.0-flash"

// ProviderOption configures the Gemini provider
type ProviderOption func(*GeminiProvider)

// WithVertexAI routes calls through Vertex AI instead of the Gemini API.
func WithVertexAI(project, location string) ProviderOption {
	return func(p *GeminiProvider) {
		p.project = project
		p.location = location
		p.useVertexAI = true
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) ProviderOption {
	return func(p *GeminiProvider) {
		p.baseURL = url
	}
}

// GeminiProvider implements the LLM interface for Google Gemini
type GeminiProvider struct {
	client      *genai.Client
	apiKey      string
	model       string
	baseURL     string
	project     string
	location    string
	useVertexAI bool
}

var _ llm.LLM = (*GeminiProvider)(nil)

// NewGeminiProvider creates a provider. An empty apiKey falls back to
// GEMINI_API_KEY; Vertex AI authenticates with application default
// credentials instead.
func NewGeminiProvider(ctx context.Context, apiKey, model string, opts ...ProviderOption) (*GeminiProvider, error) {
	p := &GeminiProvider{apiKey: apiKey, model: model}
	for _, opt := range opts {
		opt(p)
	}
	if p.apiKey == "" {
		p.apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if p.model == "" {
		p.model = DefaultModel
	}

	config := &genai.ClientConfig{HTTPOptions: genai.HTTPOptions{BaseURL: p.baseURL}}
	if p.useVertexAI {
		config.Backend = genai.BackendVertexAI
		config.Project = p.project
		config.Location = p.location
	} else {
		if p.apiKey == "" {
			return nil, errorRegistry.New(ErrMissingAPIKey)
		}
		config.Backend = genai.BackendGeminiAPI
		config.APIKey = p.apiKey
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, errorRegistry.NewWithCause(ErrClientInit, err)
	}
	p.client = client
	return p, nil
}

// Chat implements the LLM interface
func (p *GeminiProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (llm.Response, error) {
	options := llm.DefaultOptions()
	options.Model = p.model
	llm.Apply(options, opts...)

	system, rest := llm.SplitSystem(messages)
	if len(rest) == 0 {
		return llm.Response{}, errorRegistry.New(ErrEmptyMessages)
	}

	contents := make([]*genai.Content, 0, len(rest))
	for i, msg := range rest {
		var role genai.Role
		switch msg.Role {
		case llm.RoleUser:
			role = genai.RoleUser
		case llm.RoleAssistant:
			role = genai.RoleModel
		default:
			return llm.Response{}, errorRegistry.New(ErrUnsupportedRole).
				WithDetail("message_index", i).
				WithDetail("role", msg.Role)
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}

	result, err := p.client.Models.GenerateContent(ctx, options.Model, contents, generateConfig(options, system))
	if err != nil {
		return llm.Response{}, ParseGeminiError(err).
			WithDetail("model", options.Model).
			WithDetail("num_messages", len(messages))
	}
	return convertResponse(result, options.Model)
}

func generateConfig(options *llm.ChatOptions, system string) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if options.Temperature != 0 {
		config.Temperature = genai.Ptr(options.Temperature)
	}
	if options.TopP != 0 {
		config.TopP = genai.Ptr(options.TopP)
	}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if len(options.Stop) > 0 {
		config.StopSequences = options.Stop
	}
	return config
}

func convertResponse(result *genai.GenerateContentResponse, model string) (llm.Response, error) {
	if result == nil || len(result.Candidates) == 0 {
		return llm.Response{}, errorRegistry.New(ErrAPIResponse).
			WithDetail("error", "no candidates in response")
	}

	var text strings.Builder
	if content := result.Candidates[0].Content; content != nil {
		for _, part := range content.Parts {
			text.WriteString(part.Text)
		}
	}

	var usage llm.Usage
	if m := result.UsageMetadata; m != nil {
		usage.PromptTokens = int(m.PromptTokenCount)
		usage.CompletionTokens = int(m.CandidatesTokenCount)
		usage.TotalTokens = int(m.TotalTokenCount)
	}
	if result.ModelVersion != "" {
		model = result.ModelVersion
	}

	return llm.Response{
		Message: llm.NewAssistantMessage(text.String()),
		Usage:   usage,
		Model:   model,
	}, nil
}
