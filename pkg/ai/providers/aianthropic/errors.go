package aianthropic

import (
	"errors"
	"net/http"

	"github.com/Abraxas-365/certmailer/pkg/errx"
	"github.com/anthropics/anthropic-sdk-go"
)

var (
	// Error registry for the Anthropic provider
	errorRegistry = errx.NewRegistry("ANTHROPIC")

	ErrAPIRequest = errorRegistry.Register(
		"API_REQUEST_FAILED",
		errx.TypeExternal,
		http.StatusBadGateway,
		"Failed to make request to Anthropic API",
	)

	ErrAPIUnauthorized = errorRegistry.Register(
		"API_UNAUTHORIZED",
		errx.TypeAuthorization,
		http.StatusUnauthorized,
		"Invalid or missing Anthropic API key",
	)

	ErrAPIRateLimit = errorRegistry.Register(
		"API_RATE_LIMIT",
		errx.TypeExternal,
		http.StatusTooManyRequests,
		"Anthropic API rate limit exceeded",
	)

	ErrAPIOverloaded = errorRegistry.Register(
		"API_OVERLOADED",
		errx.TypeExternal,
		http.StatusServiceUnavailable,
		"Anthropic API is overloaded",
	)

	ErrInvalidRequest = errorRegistry.Register(
		"INVALID_REQUEST",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Anthropic API rejected the request",
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
		"Anthropic API key is required",
	)
)

// ParseAnthropicError maps an SDK error to a registered code.
func ParseAnthropicError(err error) *errx.Error {
	if err == nil {
		return nil
	}

	var customErr *errx.Error
	if errx.As(err, &customErr) {
		return customErr
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return errorRegistry.NewWithCause(ErrAPIRequest, err)
	}

	var code *errx.ErrorCode
	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		code = ErrAPIUnauthorized
	case http.StatusTooManyRequests:
		code = ErrAPIRateLimit
	case 529, http.StatusServiceUnavailable:
		code = ErrAPIOverloaded
	case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
		code = ErrInvalidRequest
	default:
		code = ErrAPIRequest
	}
	return errorRegistry.NewWithCause(code, err).WithDetail("status_code", apiErr.StatusCode)
}
