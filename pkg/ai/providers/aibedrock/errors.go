package aibedrock

import (
	"errors"
	"net/http"

	"github.com/Abraxas-365/certmailer/pkg/errx"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

var (
	errorRegistry = errx.NewRegistry("BEDROCK")

	ErrAPIRequest = errorRegistry.Register(
		"API_REQUEST_FAILED",
		errx.TypeExternal,
		http.StatusBadGateway,
		"Failed to make request to Bedrock API",
	)

	ErrAPIResponse = errorRegistry.Register(
		"API_RESPONSE_INVALID",
		errx.TypeExternal,
		http.StatusBadGateway,
		"Invalid response from Bedrock API",
	)

	ErrAPIUnauthorized = errorRegistry.Register(
		"API_UNAUTHORIZED",
		errx.TypeAuthorization,
		http.StatusUnauthorized,
		"AWS credentials are missing or not allowed to invoke the model",
	)

	ErrAPIRateLimit = errorRegistry.Register(
		"API_RATE_LIMIT",
		errx.TypeExternal,
		http.StatusTooManyRequests,
		"Bedrock API rate limit exceeded",
	)

	ErrAPIUnavailable = errorRegistry.Register(
		"API_UNAVAILABLE",
		errx.TypeExternal,
		http.StatusServiceUnavailable,
		"Bedrock model is unavailable or timed out",
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
		"Bedrock API rejected the request",
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
)

// ParseBedrockError maps an AWS Bedrock error to an errx.Error
func ParseBedrockError(err error) *errx.Error {
	if err == nil {
		return nil
	}

	var customErr *errx.Error
	if errx.As(err, &customErr) {
		return customErr
	}

	var (
		accessDenied *types.AccessDeniedException
		throttled    *types.ThrottlingException
		notFound     *types.ResourceNotFoundException
		invalid      *types.ValidationException
		unavailable  *types.ServiceUnavailableException
		timeout      *types.ModelTimeoutException
		notReady     *types.ModelNotReadyException
	)

	var code *errx.ErrorCode
	switch {
	case errors.As(err, &accessDenied):
		code = ErrAPIUnauthorized
	case errors.As(err, &throttled):
		code = ErrAPIRateLimit
	case errors.As(err, &notFound):
		code = ErrModelNotFound
	case errors.As(err, &invalid):
		code = ErrInvalidRequest
	case errors.As(err, &unavailable), errors.As(err, &timeout), errors.As(err, &notReady):
		code = ErrAPIUnavailable
	default:
		code = ErrAPIRequest
	}
	return errorRegistry.NewWithCause(code, err)
}
