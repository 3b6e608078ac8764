// Package aibedrock implements llm.LLM with the AWS Bedrock Converse API.
package aibedrock

import (
	"context"
	"strings"

	"github.com/Abraxas-365/certmailer/pkg/ai/llm"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// DefaultModel is used when neither the constructor nor an option sets one.
const DefaultModel = "anthropic.claude-sonnet-4-20250514-v1:0"

// ConverseAPI is the part of the Bedrock runtime client the provider uses.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockProvider implements the LLM interface for AWS Bedrock
type BedrockProvider struct {
	client ConverseAPI
	model  string
}

var _ llm.LLM = (*BedrockProvider)(nil)

// NewBedrockProvider creates a provider on client. An empty model means
// DefaultModel.
func NewBedrockProvider(client ConverseAPI, model string) *BedrockProvider {
	if model == "" {
		model = DefaultModel
	}
	return &BedrockProvider{client: client, model: model}
}

// Chat implements the LLM interface
func (p *BedrockProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (llm.Response, error) {
	options := llm.DefaultOptions()
	options.Model = p.model
	llm.Apply(options, opts...)

	system, rest := llm.SplitSystem(messages)
	if len(rest) == 0 {
		return llm.Response{}, errorRegistry.New(ErrEmptyMessages)
	}

	converted := make([]types.Message, 0, len(rest))
	for i, msg := range rest {
		var role types.ConversationRole
		switch msg.Role {
		case llm.RoleUser:
			role = types.ConversationRoleUser
		case llm.RoleAssistant:
			role = types.ConversationRoleAssistant
		default:
			return llm.Response{}, errorRegistry.New(ErrUnsupportedRole).
				WithDetail("message_index", i).
				WithDetail("role", msg.Role)
		}
		converted = append(converted, types.Message{
			Role:    role,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: msg.Content}},
		})
	}

	input := &bedrockruntime.ConverseInput{
		ModelId:         aws.String(options.Model),
		Messages:        converted,
		InferenceConfig: inferenceConfig(options),
	}
	if system != "" {
		input.System = []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: system}}
	}

	output, err := p.client.Converse(ctx, input)
	if err != nil {
		return llm.Response{}, ParseBedrockError(err).
			WithDetail("model", options.Model).
			WithDetail("num_messages", len(messages))
	}
	return convertResponse(output, options.Model)
}

func inferenceConfig(options *llm.ChatOptions) *types.InferenceConfiguration {
	cfg := &types.InferenceConfiguration{}
	set := false
	if options.MaxTokens > 0 {
		cfg.MaxTokens = aws.Int32(int32(options.MaxTokens))
		set = true
	}
	if options.Temperature != 0 {
		cfg.Temperature = aws.Float32(options.Temperature)
		set = true
	}
	if options.TopP != 0 {
		cfg.TopP = aws.Float32(options.TopP)
		set = true
	}
	if len(options.Stop) > 0 {
		cfg.StopSequences = options.Stop
		set = true
	}
	if !set {
		return nil
	}
	return cfg
}

func convertResponse(output *bedrockruntime.ConverseOutput, model string) (llm.Response, error) {
	msg, ok := output.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return llm.Response{}, errorRegistry.New(ErrAPIResponse).
			WithDetail("error", "no message in response")
	}

	var text strings.Builder
	for _, block := range msg.Value.Content {
		if t, ok := block.(*types.ContentBlockMemberText); ok {
			text.WriteString(t.Value)
		}
	}

	var usage llm.Usage
	if u := output.Usage; u != nil {
		usage.PromptTokens = int(aws.ToInt32(u.InputTokens))
		usage.CompletionTokens = int(aws.ToInt32(u.OutputTokens))
		usage.TotalTokens = int(aws.ToInt32(u.TotalTokens))
	}

	return llm.Response{
		Message: llm.NewAssistantMessage(text.String()),
		Usage:   usage,
		Model:   model,
	}, nil
}
