// Package maybe provides an optional value: either Nothing or Just a value.
package maybe

import "fmt"

// Maybe holds either a value (Just) or nothing. The zero Maybe is Nothing.
type Maybe[T any] struct {
	value T
	ok    bool
}

// Just wraps v.
func Just[T any](v T) Maybe[T] {
	return Maybe[T]{value: v, ok: true}
}

// Nothing returns the empty Maybe.
func Nothing[T any]() Maybe[T] {
	return Maybe[T]{}
}

// Get returns the wrapped value and whether there is one.
func (m Maybe[T]) Get() (T, bool) {
	return m.value, m.ok
}

func (m Maybe[T]) IsJust() bool {
	return m.ok
}

func (m Maybe[T]) IsNothing() bool {
	return !m.ok
}

// OrElse returns the wrapped value, or def for Nothing.
func (m Maybe[T]) OrElse(def T) T {
	if !m.ok {
		return def
	}
	return m.value
}

func (m Maybe[T]) String() string {
	if !m.ok {
		return "Nothing"
	}
	return fmt.Sprintf("Just(%v)", m.value)
}

// Map applies f to the value of a Just. Nothing maps to Nothing and f is
// not called.
func Map[T, U any](m Maybe[T], f func(T) U) Maybe[U] {
	if !m.ok {
		return Nothing[U]()
	}
	return Just(f(m.value))
}

// Bind is Map for functions that may themselves produce Nothing.
func Bind[T, U any](m Maybe[T], f func(T) Maybe[U]) Maybe[U] {
	if !m.ok {
		return Nothing[U]()
	}
	return f(m.value)
}
