package textx

import "regexp"

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// IsValidEmail reports whether address is syntactically acceptable. No DNS or
// mailbox verification is attempted.
func IsValidEmail(address string) bool {
	return emailPattern.MatchString(address)
}
