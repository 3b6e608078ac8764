package aigemini

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Abraxas-365/certmailer/pkg/errx"
	"google.golang.org/genai"
)

var (
	errorRegistry = errx.NewRegistry("GEMINI")

	ErrAPIRequest = errorRegistry.Register(
		"API_REQUEST_FAILED",
		errx.TypeExternal,
		http.StatusBadGateway,
		"Failed to make request to Gemini API",
	)

	ErrAPIResponse = errorRegistry.Register(
		"API_RESPONSE_INVALID",
		errx.TypeExternal,
		http.StatusBadGateway,
		"Invalid response from Gemini API",
	)

	ErrAPIUnauthorized = errorRegistry.Register(
		"API_UNAUTHORIZED",
		errx.TypeAuthorization,
		http.StatusUnauthorized,
		"Invalid or missing Gemini API key",
	)

	ErrAPIRateLimit = errorRegistry.Register(
		"API_RATE_LIMIT",
		errx.TypeExternal,
		http.StatusTooManyRequests,
		"Gemini API rate limit exceeded",
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
		"Gemini API rejected the request",
	)

	ErrEmptyMessages = errorRegistry.Register(
		"EMPTY_MESSAGES",
		errx.TypeValidation,
		http.StatusBadRequest,
		"At least one non-system message is required",
	)

	ErrUnsupportedRole = errorRegistry.Register(
		"UNSUPPORTED_ROLE",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Message role is not supported",
	)

	ErrMissingAPIKey = errorRegistry.Register(
		"MISSING_API_KEY",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Gemini API key not provided",
	)

	ErrClientInit = errorRegistry.Register(
		"CLIENT_INIT_FAILED",
		errx.TypeInternal,
		http.StatusInternalServerError,
		"Gemini client could not be created",
	)
)

// ParseGeminiError maps an SDK error to a registered code. API errors are
// classified by status; anything else by its message.
func ParseGeminiError(err error) *errx.Error {
	if err == nil {
		return nil
	}

	var customErr *errx.Error
	if errx.As(err, &customErr) {
		return customErr
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		var code *errx.ErrorCode
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			code = ErrAPIUnauthorized
		case http.StatusTooManyRequests:
			code = ErrAPIRateLimit
		case http.StatusNotFound:
			code = ErrModelNotFound
		case http.StatusBadRequest:
			code = ErrInvalidRequest
		default:
			code = ErrAPIRequest
		}
		return errorRegistry.NewWithCause(code, err).WithDetail("status_code", apiErr.Code)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "permission denied") || strings.Contains(msg, "api key"):
		return errorRegistry.NewWithCause(ErrAPIUnauthorized, err)
	case strings.Contains(msg, "resource exhausted") || strings.Contains(msg, "quota"):
		return errorRegistry.NewWithCause(ErrAPIRateLimit, err)
	}
	return errorRegistry.NewWithCause(ErrAPIRequest, err)
}
