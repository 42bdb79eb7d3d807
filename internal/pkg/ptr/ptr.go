// Package ptr builds pointers for optional patch fields.
package ptr

func To[T any](v T) *T {
	return &v
}
