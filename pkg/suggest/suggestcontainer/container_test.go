package suggestcontainer

import (
	"context"
	"testing"

	"github.com/Abraxas-365/certmailer/pkg/ai/providers/aianthropic"
	"github.com/Abraxas-365/certmailer/pkg/ai/providers/aibedrock"
	"github.com/Abraxas-365/certmailer/pkg/ai/providers/aigemini"
	"github.com/Abraxas-365/certmailer/pkg/ai/providers/aiopenai"
	"github.com/Abraxas-365/certmailer/pkg/config"
	"github.com/Abraxas-365/certmailer/pkg/errx"
	"github.com/Abraxas-365/certmailer/pkg/suggest"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBedrock struct{}

func (fakeBedrock) Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	return &bedrockruntime.ConverseOutput{}, nil
}

func TestNewModel(t *testing.T) {
	ctx := t.Context()
	cases := []struct {
		provider string
		want     any
	}{
		{config.SuggestOpenAI, &aiopenai.OpenAIProvider{}},
		{config.SuggestAnthropic, &aianthropic.AnthropicProvider{}},
		{config.SuggestGemini, &aigemini.GeminiProvider{}},
		{config.SuggestBedrock, &aibedrock.BedrockProvider{}},
	}
	for _, tc := range cases {
		m, err := NewModel(ctx, config.SuggestConfig{Provider: tc.provider, APIKey: "k"}, fakeBedrock{})
		require.NoError(t, err, tc.provider)
		assert.IsType(t, tc.want, m, tc.provider)
	}

	m, err := NewModel(ctx, config.SuggestConfig{Provider: config.SuggestDisabled}, nil)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestNewModel_BedrockWithoutClient(t *testing.T) {
	_, err := NewModel(t.Context(), config.SuggestConfig{Provider: config.SuggestBedrock}, nil)
	assert.True(t, errx.HasCode(err, suggest.CodeNotConfigured))
}

func TestNew_Disabled(t *testing.T) {
	c := New(Deps{Cfg: &config.Config{Suggest: config.SuggestConfig{Provider: config.SuggestDisabled}}})

	_, err := c.Service.Suggest(t.Context(), suggest.Request{Prompt: "hello"})
	assert.True(t, errx.HasCode(err, suggest.CodeNotConfigured))
}

func TestNew_GeminiWithoutKeyIsDisabled(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	c := New(Deps{Cfg: &config.Config{Suggest: config.SuggestConfig{Provider: config.SuggestGemini}}})

	assert.Nil(t, c.Model)
	_, err := c.Service.Suggest(t.Context(), suggest.Request{Prompt: "hello"})
	assert.True(t, errx.HasCode(err, suggest.CodeNotConfigured))
}
