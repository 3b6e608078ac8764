package notifxses

import "github.com/Abraxas-365/certmailer/pkg/errx"

var sesErrors = errx.NewRegistry("NOTIFX_SES")

var (
	ErrSendFailed = sesErrors.Register("SEND_FAILED", errx.TypeExternal, 502, "SES send raw email failed")
	ErrClosed     = sesErrors.Register("SESSION_CLOSED", errx.TypeInternal, 500, "SES session already closed")
)
