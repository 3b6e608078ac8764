package notifxsmtp

import "github.com/Abraxas-365/certmailer/pkg/errx"

var smtpErrors = errx.NewRegistry("NOTIFX_SMTP")

var (
	ErrConfig     = smtpErrors.Register("CONFIG", errx.TypeValidation, 400, "Invalid SMTP configuration")
	ErrConnect    = smtpErrors.Register("CONNECT_FAILED", errx.TypeExternal, 502, "Could not connect or authenticate to the SMTP server")
	ErrSendFailed = smtpErrors.Register("SEND_FAILED", errx.TypeExternal, 502, "SMTP send failed")
	ErrClosed     = smtpErrors.Register("SESSION_CLOSED", errx.TypeInternal, 500, "SMTP session already closed")
)
