package campaign

import (
	"net/http"

	"github.com/Abraxas-365/certmailer/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("CAMPAIGN")

var (
	CodeNoRecipients      = ErrRegistry.Register("NO_RECIPIENTS", errx.TypeValidation, http.StatusBadRequest, "No valid recipients to send to")
	CodeNoCertificates    = ErrRegistry.Register("NO_CERTIFICATES", errx.TypeValidation, http.StatusBadRequest, "Certificates are required but none were uploaded")
	CodeInvalidSender     = ErrRegistry.Register("INVALID_SENDER", errx.TypeValidation, http.StatusBadRequest, "Sender address is not a valid email")
	CodeMissingCredential = ErrRegistry.Register("MISSING_CREDENTIAL", errx.TypeValidation, http.StatusBadRequest, "Sender app password is required")
	CodeEmptyTemplate     = ErrRegistry.Register("EMPTY_TEMPLATE", errx.TypeValidation, http.StatusBadRequest, "Subject and body are required")
	CodeInvalidTemplate   = ErrRegistry.Register("INVALID_TEMPLATE", errx.TypeValidation, http.StatusBadRequest, "Template could not be parsed")
	CodeDisallowedFile    = ErrRegistry.Register("DISALLOWED_FILE", errx.TypeValidation, http.StatusBadRequest, "File type is not allowed")
	CodeFileRead          = ErrRegistry.Register("FILE_READ", errx.TypeInternal, http.StatusInternalServerError, "Could not read uploaded file")
	CodeSessionFailed     = ErrRegistry.Register("SESSION_FAILED", errx.TypeExternal, http.StatusBadGateway, "Could not open a mail session")
	CodeCancelled         = ErrRegistry.Register("CANCELLED", errx.TypeBusiness, 499, "Campaign was cancelled")
	CodeRunLog            = ErrRegistry.Register("RUN_LOG", errx.TypeInternal, http.StatusInternalServerError, "Could not open run log")
)

func ErrNoRecipients() *errx.Error   { return ErrRegistry.New(CodeNoRecipients) }
func ErrNoCertificates() *errx.Error { return ErrRegistry.New(CodeNoCertificates) }
func ErrEmptyTemplate() *errx.Error  { return ErrRegistry.New(CodeEmptyTemplate) }

func ErrInvalidSender(sender string) *errx.Error {
	return ErrRegistry.New(CodeInvalidSender).WithDetail("sender", sender)
}

func ErrMissingCredential() *errx.Error { return ErrRegistry.New(CodeMissingCredential) }

func ErrDisallowedFile(name string, role Role) *errx.Error {
	return ErrRegistry.New(CodeDisallowedFile).
		WithDetail("file", name).
		WithDetail("role", role).
		WithDetail("allowed", role.Allowed())
}
