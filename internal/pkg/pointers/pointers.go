package pointers

import "strings"

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// NonEmpty returns nil for blank strings so optional text columns store NULL.
func NonEmpty(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// Deref returns the pointed-to value or the zero value.
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// TrimmedOrNil is NonEmpty for an optional input.
func TrimmedOrNil(p *string) *string {
	if p == nil {
		return nil
	}
	return NonEmpty(*p)
}
