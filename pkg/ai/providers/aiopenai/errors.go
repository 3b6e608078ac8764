package aiopenai

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Abraxas-365/certmailer/pkg/errx"
	"github.com/openai/openai-go/v3"
)

var (
	// Error registry for OpenAI-compatible providers
	errorRegistry = errx.NewRegistry("OPENAI")

	ErrAPIRequest = errorRegistry.Register(
		"API_REQUEST_FAILED",
		errx.TypeExternal,
		http.StatusBadGateway,
		"Failed to make request to the chat completion API",
	)

	ErrAPIUnauthorized = errorRegistry.Register(
		"API_UNAUTHORIZED",
		errx.TypeAuthorization,
		http.StatusUnauthorized,
		"Invalid or missing API key",
	)

	ErrAPIRateLimit = errorRegistry.Register(
		"API_RATE_LIMIT",
		errx.TypeExternal,
		http.StatusTooManyRequests,
		"Chat completion API rate limit exceeded",
	)

	ErrModelNotFound = errorRegistry.Register(
		"MODEL_NOT_FOUND",
		errx.TypeValidation,
		http.StatusNotFound,
		"Requested model not found or not accessible",
	)

	ErrInvalidRequest = errorRegistry.Register(
		"INVALID_REQUEST",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Chat completion request was rejected",
	)

	ErrEmptyMessages = errorRegistry.Register(
		"EMPTY_MESSAGES",
		errx.TypeValidation,
		http.StatusBadRequest,
		"At least one message is required",
	)

	ErrUnsupportedRole = errorRegistry.Register(
		"UNSUPPORTED_ROLE",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Message role is not supported",
	)

	ErrNoChoicesInResponse = errorRegistry.Register(
		"NO_CHOICES",
		errx.TypeExternal,
		http.StatusBadGateway,
		"Chat completion response contained no choices",
	)

	ErrMissingAPIKey = errorRegistry.Register(
		"MISSING_API_KEY",
		errx.TypeValidation,
		http.StatusBadRequest,
		"API key is required",
	)
)

// ParseOpenAIError maps an SDK error to a registered code. The provider's
// own message is kept as the error message so it can be shown verbatim.
func ParseOpenAIError(err error) *errx.Error {
	if err == nil {
		return nil
	}

	var customErr *errx.Error
	if errx.As(err, &customErr) {
		return customErr
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		code := codeForStatus(apiErr.StatusCode, apiErr.Message)
		msg := apiErr.Message
		if msg == "" {
			msg = code.Message
		}
		e := errorRegistry.NewWithMessage(code, msg).WithDetail("status_code", apiErr.StatusCode)
		e.Err = err
		if apiErr.Code != "" {
			e.WithDetail("error_code", apiErr.Code)
		}
		return e
	}

	return errorRegistry.NewWithCause(ErrAPIRequest, err)
}

func codeForStatus(status int, message string) *errx.ErrorCode {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAPIUnauthorized
	case http.StatusTooManyRequests:
		return ErrAPIRateLimit
	case http.StatusNotFound:
		if strings.Contains(strings.ToLower(message), "model") {
			return ErrModelNotFound
		}
		return ErrAPIRequest
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrInvalidRequest
	default:
		return ErrAPIRequest
	}
}
