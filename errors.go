package ringbuf

import "errors"

var (
	// ErrFull is returned by Push when every usable slot holds a value.
	ErrFull = errors.New("ringbuf: buffer full")
	// ErrEmpty is returned by Pop when there is nothing to read.
	ErrEmpty = errors.New("ringbuf: buffer empty")
	// ErrInvalidCapacity is returned by the constructors for a capacity below 1.
	ErrInvalidCapacity = errors.New("ringbuf: invalid capacity")
	// ErrReleased is returned by operations on a buffer after Release.
	ErrReleased = errors.New("ringbuf: buffer released")
)
