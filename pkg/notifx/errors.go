package notifx

import "github.com/Abraxas-365/certmailer/pkg/errx"

var ErrRegistry = errx.NewRegistry("NOTIFX")

var (
	ErrSendFailed      = ErrRegistry.Register("SEND_FAILED", errx.TypeExternal, 502, "Failed to send email")
	ErrInvalidMessage  = ErrRegistry.Register("INVALID_MESSAGE", errx.TypeValidation, 400, "Invalid email message")
	ErrTemplateParse   = ErrRegistry.Register("TEMPLATE_PARSE", errx.TypeValidation, 400, "Failed to parse email template")
	ErrMissingField    = ErrRegistry.Register("MISSING_FIELD", errx.TypeValidation, 422, "Template references a field the recipient does not have")
	ErrBuildMIME       = ErrRegistry.Register("BUILD_MIME", errx.TypeInternal, 500, "Failed to build MIME message")
	ErrUnknownProvider = ErrRegistry.Register("UNKNOWN_PROVIDER", errx.TypeValidation, 400, "Unknown email provider")
)
