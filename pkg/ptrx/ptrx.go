// Package ptrx builds pointers for optional fields.
package ptrx

// Bool returns a pointer value for the bool value passed in.
func Bool(v bool) *bool {
	return &v
}
