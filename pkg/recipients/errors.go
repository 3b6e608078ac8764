package recipients

import (
	"net/http"

	"github.com/Abraxas-365/certmailer/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("RECIPIENTS")

var (
	CodeUnsupportedFormat = ErrRegistry.Register("UNSUPPORTED_FORMAT", errx.TypeValidation, http.StatusBadRequest, "Recipient file must be .csv or .xlsx")
	CodeMalformed         = ErrRegistry.Register("MALFORMED", errx.TypeValidation, http.StatusBadRequest, "Recipient file could not be read")
	CodeEmpty             = ErrRegistry.Register("EMPTY", errx.TypeValidation, http.StatusBadRequest, "Recipient file has no header row")
	CodeMissingColumn     = ErrRegistry.Register("MISSING_COLUMN", errx.TypeValidation, http.StatusBadRequest, "Recipient file is missing a required column")
	CodeNoValidEmails     = ErrRegistry.Register("NO_VALID_EMAILS", errx.TypeValidation, http.StatusUnprocessableEntity, "No rows with a valid email address")
)

func ErrUnsupportedFormat(filename string) *errx.Error {
	return ErrRegistry.New(CodeUnsupportedFormat).WithDetail("file", filename)
}

func ErrMalformed(filename string, cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeMalformed, cause).WithDetail("file", filename)
}

func ErrEmpty(filename string) *errx.Error {
	return ErrRegistry.New(CodeEmpty).WithDetail("file", filename)
}

func ErrMissingColumn(columns ...string) *errx.Error {
	return ErrRegistry.New(CodeMissingColumn).WithDetail("columns", columns)
}

func ErrNoValidEmails(invalid int) *errx.Error {
	return ErrRegistry.New(CodeNoValidEmails).WithDetail("invalid_rows", invalid)
}
