package ringbuf

import (
	"github.com/pkg/errors"

	"github.com/jacoelho/ringbuf/maybe"
)

// State describes how many of the usable slots hold values.
type State uint8

const (
	StateEmpty State = iota
	StatePartial
	StateFull
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePartial:
		return "partial"
	case StateFull:
		return "full"
	default:
		return "unknown"
	}
}

// RingBuffer is a fixed-capacity FIFO of uint32 values.
//
// One slot is always kept free so that write == read means empty, which
// leaves Cap()-1 usable slots. A RingBuffer is not safe for concurrent use;
// see Locked.
type RingBuffer struct {
	data  []uint32
	write int
	read  int

	owned    bool
	released bool
}

// New allocates a zeroed buffer with capacity slots.
func New(capacity int) (*RingBuffer, error) {
	if capacity < 1 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "capacity %d", capacity)
	}
	return &RingBuffer{
		data:  make([]uint32, capacity),
		owned: true,
	}, nil
}

// NewWithStorage builds a buffer over caller-owned storage. The capacity is
// len(buf) and the existing contents are left as they are.
//
// The caller must keep buf alive and must not read or write it until
// Release has been called.
func NewWithStorage(buf []uint32) (*RingBuffer, error) {
	if len(buf) == 0 {
		return nil, errors.Wrap(ErrInvalidCapacity, "empty storage")
	}
	return &RingBuffer{data: buf[:len(buf):len(buf)]}, nil
}

// Push appends v. It returns ErrFull, leaving the buffer untouched, when no
// slot is free.
func (r *RingBuffer) Push(v uint32) error {
	if r.released {
		return ErrReleased
	}

	next := r.advance(r.write)
	if next == r.read {
		return ErrFull
	}

	r.data[r.write] = v
	r.write = next
	return nil
}

// Pop removes and returns the oldest value. It returns ErrEmpty, leaving the
// buffer untouched, when nothing is stored.
func (r *RingBuffer) Pop() (uint32, error) {
	if r.released {
		return 0, ErrReleased
	}
	if r.write == r.read {
		return 0, ErrEmpty
	}

	v := r.data[r.read]
	r.read = r.advance(r.read)
	return v, nil
}

// PopMaybe is Pop reporting absence as Nothing instead of an error.
func (r *RingBuffer) PopMaybe() maybe.Maybe[uint32] {
	v, err := r.Pop()
	if err != nil {
		return maybe.Nothing[uint32]()
	}
	return maybe.Just(v)
}

// Release drops the buffer's reference to its storage. Borrowed storage is
// handed back untouched. Calling Release more than once is a no-op.
func (r *RingBuffer) Release() error {
	if r.released {
		return nil
	}
	r.released = true
	if r.owned {
		clear(r.data)
	}
	r.data = nil
	r.write, r.read = 0, 0
	return nil
}

// Released reports whether Release has been called.
func (r *RingBuffer) Released() bool {
	return r.released
}

// Cap returns the number of slots, including the reserved one.
func (r *RingBuffer) Cap() int {
	return len(r.data)
}

// Len returns the number of values waiting to be popped.
func (r *RingBuffer) Len() int {
	if r.write >= r.read {
		return r.write - r.read
	}
	return len(r.data) - r.read + r.write
}

// Free returns how many pushes would currently succeed.
func (r *RingBuffer) Free() int {
	if len(r.data) == 0 {
		return 0
	}
	return len(r.data) - 1 - r.Len()
}

// WriteCursor returns the slot the next Push writes to.
func (r *RingBuffer) WriteCursor() int {
	return r.write
}

// ReadCursor returns the slot the next Pop reads from.
func (r *RingBuffer) ReadCursor() int {
	return r.read
}

// Empty reports whether Pop would return ErrEmpty.
func (r *RingBuffer) Empty() bool {
	return r.write == r.read
}

// Full reports whether Push would return ErrFull.
func (r *RingBuffer) Full() bool {
	if len(r.data) == 0 {
		return true
	}
	return r.advance(r.write) == r.read
}

func (r *RingBuffer) State() State {
	switch {
	case r.Empty():
		return StateEmpty
	case r.Full():
		return StateFull
	default:
		return StatePartial
	}
}

func (r *RingBuffer) advance(i int) int {
	i++
	if i >= len(r.data) {
		i = 0
	}
	return i
}
