package pointer

func Ref[T any](t T) *T {
	return &t
}

// Or returns *ptr, or d when ptr is nil.
func Or[T any](ptr *T, d T) T {
	if ptr == nil {
		return d
	}
	return *ptr
}
