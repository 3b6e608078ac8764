package fsx

import (
	"net/http"

	"github.com/Abraxas-365/certmailer/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("FSX")

var (
	CodeNotFound    = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "File or directory not found")
	CodeOutsideRoot = ErrRegistry.Register("OUTSIDE_ROOT", errx.TypeValidation, http.StatusBadRequest, "Path escapes the storage root")
	CodeReadFailed  = ErrRegistry.Register("READ_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to read from storage")
	CodeWriteFailed = ErrRegistry.Register("WRITE_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to write to storage")
)

// ErrNotFound reports a missing path.
func ErrNotFound(path string) *errx.Error {
	return ErrRegistry.New(CodeNotFound).WithDetail("path", path)
}

// ErrRead wraps a backend read failure.
func ErrRead(path string, cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeReadFailed, cause).WithDetail("path", path)
}

// ErrWrite wraps a backend write failure.
func ErrWrite(path string, cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeWriteFailed, cause).WithDetail("path", path)
}
