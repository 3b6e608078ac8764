package suggestsrv

import (
	"context"
	"strings"
	"time"

	"github.com/Abraxas-365/certmailer/pkg/ai/llm"
	"github.com/Abraxas-365/certmailer/pkg/asyncx"
	"github.com/Abraxas-365/certmailer/pkg/errx"
	"github.com/Abraxas-365/certmailer/pkg/logx"
	"github.com/Abraxas-365/certmailer/pkg/suggest"
)

const (
	draftPrompt = "You write professional, formal emails. Using the context the user gives, " +
		"write a complete email with a greeting, a clear body and a courteous closing. " +
		"Return only the email text."
	polishPrompt = "You are an editor. Improve the user's email draft for clarity, tone and grammar " +
		"while keeping its meaning and any {placeholders} exactly as written. Return only the revised email."
)

// Config holds generation settings.
type Config struct {
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultConfig matches the historical request: temperature 0.3, one minute.
func DefaultConfig() Config {
	return Config{
		Temperature: 0.3,
		Timeout:     time.Minute,
	}
}

// SuggestService generates email copy. A nil model makes every call fail
// with NOT_CONFIGURED.
type SuggestService struct {
	model llm.LLM
	cfg   Config
}

func NewSuggestService(model llm.LLM, cfg Config) *SuggestService {
	return &SuggestService{model: model, cfg: cfg}
}

// Suggest returns generated text for req. Provider failures are reported as
// GENERATION_FAILED carrying the provider's own message.
func (s *SuggestService) Suggest(ctx context.Context, req suggest.Request) (*suggest.Suggestion, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, suggest.ErrRegistry.New(suggest.CodeEmptyPrompt)
	}
	if !req.Mode.Valid() {
		return nil, suggest.ErrRegistry.New(suggest.CodeUnknownMode).WithDetail("mode", req.Mode)
	}
	if s.model == nil {
		return nil, suggest.ErrRegistry.New(suggest.CodeNotConfigured)
	}

	messages := make([]llm.Message, 0, 2)
	switch req.Mode {
	case suggest.ModeDraft:
		messages = append(messages, llm.NewSystemMessage(draftPrompt))
	case suggest.ModePolish:
		messages = append(messages, llm.NewSystemMessage(polishPrompt))
	}
	messages = append(messages, llm.NewUserMessage(prompt))

	opts := []llm.Option{llm.WithTemperature(s.cfg.Temperature)}
	if s.cfg.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(s.cfg.MaxTokens))
	}

	timeout := s.cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}

	start := time.Now()
	resp, err := asyncx.WithTimeout(ctx, timeout, func(ctx context.Context) (llm.Response, error) {
		return s.model.Chat(ctx, messages, opts...)
	})
	if err != nil {
		logx.WithError(err).WithField("mode", string(req.Mode)).Warn("suggest: generation failed")
		return nil, generationFailed(err)
	}

	text := resp.Text()
	if text == "" {
		return nil, suggest.ErrRegistry.New(suggest.CodeEmptyResponse)
	}

	logx.WithFields(logx.Fields{
		"mode":     string(req.Mode),
		"model":    resp.Model,
		"tokens":   resp.Usage.TotalTokens,
		"duration": time.Since(start).String(),
	}).Info("suggest: content generated")

	return &suggest.Suggestion{
		Text:   text,
		Model:  resp.Model,
		Tokens: resp.Usage.TotalTokens,
	}, nil
}

func generationFailed(err error) *errx.Error {
	msg := err.Error()
	status := 0
	var e *errx.Error
	if errx.As(err, &e) {
		msg = e.Message
		status = e.HTTPStatus
	}
	out := suggest.ErrRegistry.NewWithCause(suggest.CodeGenerationFailed, err).WithDetail("provider_error", msg)
	if status != 0 {
		out.WithDetail("provider_status", status)
	}
	return out
}
