// Package textx holds the stateless string helpers shared by the recipient
// parser and the campaign service: name keys for matching certificates to
// people, the syntactic email check, and field sanitization.
package textx
