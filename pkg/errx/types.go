package errx

// Type is the category of an error. It drives logging severity and tells
// API clients whether retrying can help.
type Type string

const (
	// TypeInternal is a bug or an unexpected local failure
	TypeInternal Type = "INTERNAL"
	// TypeValidation is bad caller input
	TypeValidation Type = "VALIDATION"
	// TypeNotFound is a missing file, folder or object
	TypeNotFound Type = "NOT_FOUND"
	// TypeAuthorization is rejected credentials
	TypeAuthorization Type = "AUTHORIZATION"
	// TypeBusiness is a well-formed request the domain refuses
	TypeBusiness Type = "BUSINESS"
	// TypeExternal is a failure in a mail server, storage or model provider
	TypeExternal Type = "EXTERNAL"
)

func (t Type) String() string {
	return string(t)
}

// Retryable reports whether the same request may succeed later.
func (t Type) Retryable() bool {
	return t == TypeExternal
}
