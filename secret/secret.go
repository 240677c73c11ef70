// Package secret provides a small generic wrapper that zeroizes its payload
// on request, so private key material does not linger in memory after its
// last use.
package secret

import "runtime"

// Box holds a value that should not outlive its explicit Wipe call. Go has
// no destructors, so callers must call Wipe themselves (typically via
// defer) once the secret is no longer needed.
type Box[T any] struct {
	v T
}

// New wraps v in a Box.
func New[T any](v T) Box[T] {
	return Box[T]{v: v}
}

// Value returns a copy of the wrapped value.
func (b *Box[T]) Value() T {
	return b.v
}

// Wipe overwrites the wrapped value with its zero value. Safe to call more
// than once.
func (b *Box[T]) Wipe() {
	var zero T
	b.v = zero
	runtime.KeepAlive(b)
}
