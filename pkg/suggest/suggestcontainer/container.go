package suggestcontainer

import (
	"context"

	"github.com/Abraxas-365/certmailer/pkg/ai/llm"
	"github.com/Abraxas-365/certmailer/pkg/ai/providers/aianthropic"
	"github.com/Abraxas-365/certmailer/pkg/ai/providers/aibedrock"
	"github.com/Abraxas-365/certmailer/pkg/ai/providers/aigemini"
	"github.com/Abraxas-365/certmailer/pkg/ai/providers/aiopenai"
	"github.com/Abraxas-365/certmailer/pkg/config"
	"github.com/Abraxas-365/certmailer/pkg/logx"
	"github.com/Abraxas-365/certmailer/pkg/suggest"
	"github.com/Abraxas-365/certmailer/pkg/suggest/suggestapi"
	"github.com/Abraxas-365/certmailer/pkg/suggest/suggestsrv"
)

type Deps struct {
	Cfg *config.Config

	// Bedrock is the runtime client for the bedrock provider.
	Bedrock aibedrock.ConverseAPI

	// Model overrides provider selection. Used by tests.
	Model llm.LLM
}

type Container struct {
	Model    llm.LLM
	Service  *suggestsrv.SuggestService
	Handlers *suggestapi.SuggestHandlers
}

func New(deps Deps) *Container {
	cfg := deps.Cfg.Suggest
	c := &Container{Model: deps.Model}

	if c.Model == nil {
		model, err := NewModel(context.Background(), cfg, deps.Bedrock)
		if err != nil {
			logx.WithError(err).Warnf("  Suggestion provider %s could not be created", cfg.Provider)
		}
		c.Model = model
	}
	if c.Model == nil {
		logx.Warn("  Content suggestions disabled")
	} else {
		logx.Infof("  Content suggestions enabled (provider: %s)", cfg.Provider)
	}

	c.Service = suggestsrv.NewSuggestService(c.Model, suggestsrv.Config{
		Temperature: float32(cfg.Temperature),
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	})
	c.Handlers = suggestapi.NewSuggestHandlers(c.Service)
	return c
}

// NewModel returns the configured provider, or nil when suggestions are
// disabled. bedrock is only used by the bedrock provider.
func NewModel(ctx context.Context, cfg config.SuggestConfig, bedrock aibedrock.ConverseAPI) (llm.LLM, error) {
	switch cfg.Provider {
	case config.SuggestAnthropic:
		return aianthropic.NewAnthropicProvider(cfg.APIKey, cfg.Model), nil
	case config.SuggestOpenAI:
		return aiopenai.NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case config.SuggestGemini:
		var opts []aigemini.ProviderOption
		if cfg.GCPProject != "" {
			opts = append(opts, aigemini.WithVertexAI(cfg.GCPProject, cfg.GCPLocation))
		}
		p, err := aigemini.NewGeminiProvider(ctx, cfg.APIKey, cfg.Model, opts...)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.SuggestBedrock:
		if bedrock == nil {
			return nil, suggest.ErrRegistry.New(suggest.CodeNotConfigured).WithDetail("reason", "no bedrock client")
		}
		return aibedrock.NewBedrockProvider(bedrock, cfg.Model), nil
	default:
		return nil, nil
	}
}
