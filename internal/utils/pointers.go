package utils

// Value dereferences v, giving the zero value for nil. Provider payloads leave
// optional objects out entirely.
func Value[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}
