// Package suggest drafts or polishes email copy with a hosted language
// model. It is independent of the sending pipeline.
package suggest

import (
	"net/http"

	"github.com/Abraxas-365/certmailer/pkg/errx"
)

// Mode selects how the prompt is framed for the model.
type Mode string

const (
	// ModeRaw forwards the prompt as the only message.
	ModeRaw Mode = ""
	// ModeDraft writes a formal email from context notes.
	ModeDraft Mode = "draft"
	// ModePolish improves an existing draft.
	ModePolish Mode = "polish"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeRaw, ModeDraft, ModePolish:
		return true
	}
	return false
}

// Request is one suggestion request.
type Request struct {
	Prompt string `json:"prompt"`
	Mode   Mode   `json:"mode"`
}

// Suggestion is the generated text.
type Suggestion struct {
	Text   string `json:"text"`
	Model  string `json:"model,omitempty"`
	Tokens int    `json:"tokens,omitempty"`
}

var ErrRegistry = errx.NewRegistry("SUGGEST")

var (
	CodeEmptyPrompt      = ErrRegistry.Register("EMPTY_PROMPT", errx.TypeValidation, http.StatusBadRequest, "Input is required")
	CodeUnknownMode      = ErrRegistry.Register("UNKNOWN_MODE", errx.TypeValidation, http.StatusBadRequest, "Unknown suggestion mode")
	CodeGenerationFailed = ErrRegistry.Register("GENERATION_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to generate content")
	CodeEmptyResponse    = ErrRegistry.Register("EMPTY_RESPONSE", errx.TypeExternal, http.StatusBadGateway, "Model returned no content")
	CodeNotConfigured    = ErrRegistry.Register("NOT_CONFIGURED", errx.TypeBusiness, http.StatusServiceUnavailable, "Content suggestions are not configured")
)
