package ringbuf

import (
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sys/cpu"
)

// Stats counts the outcomes of operations on a Locked buffer.
type Stats struct {
	Pushed        uint64
	Popped        uint64
	RejectedFull  uint64
	RejectedEmpty uint64
}

// LockedOption configures a Locked buffer.
type LockedOption func(*Locked)

// WithLogger logs rejected operations at debug level.
func WithLogger(logger *zap.Logger) LockedOption {
	return func(l *Locked) {
		l.logger = logger
	}
}

// Locked serializes access to a RingBuffer with a mutex so it can be shared
// between goroutines. Push and Pop still never wait for space or data.
type Locked struct {
	mu sync.Mutex
	rb *RingBuffer
	_  cpu.CacheLinePad

	pushed        atomic.Uint64
	popped        atomic.Uint64
	rejectedFull  atomic.Uint64
	rejectedEmpty atomic.Uint64
	_             cpu.CacheLinePad

	logger *zap.Logger
}

// NewLocked allocates a buffer with capacity slots and wraps it.
func NewLocked(capacity int, opts ...LockedOption) (*Locked, error) {
	rb, err := New(capacity)
	if err != nil {
		return nil, err
	}
	return Wrap(rb, opts...), nil
}

// Wrap takes ownership of rb. rb must not be used directly afterwards.
func Wrap(rb *RingBuffer, opts ...LockedOption) *Locked {
	l := &Locked{rb: rb, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Locked) Push(v uint32) error {
	l.mu.Lock()
	err := l.rb.Push(v)
	l.mu.Unlock()

	switch err {
	case nil:
		l.pushed.Inc()
	case ErrFull:
		l.rejectedFull.Inc()
		l.logger.Debug("push rejected", zap.Uint32("value", v), zap.Error(err))
	}
	return err
}

func (l *Locked) Pop() (uint32, error) {
	l.mu.Lock()
	v, err := l.rb.Pop()
	l.mu.Unlock()

	switch err {
	case nil:
		l.popped.Inc()
	case ErrEmpty:
		l.rejectedEmpty.Inc()
		l.logger.Debug("pop rejected", zap.Error(err))
	}
	return v, err
}

func (l *Locked) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rb.Len()
}

func (l *Locked) Cap() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rb.Cap()
}

// Release releases the wrapped buffer. It is safe to call more than once.
func (l *Locked) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.rb.Released() {
		return nil
	}
	Dump(l.logger, "releasing ring", l.rb)
	return l.rb.Release()
}

// Stats returns the operation counters. It does not take the lock, so the
// counters may be mid-update relative to each other.
func (l *Locked) Stats() Stats {
	return Stats{
		Pushed:        l.pushed.Load(),
		Popped:        l.popped.Load(),
		RejectedFull:  l.rejectedFull.Load(),
		RejectedEmpty: l.rejectedEmpty.Load(),
	}
}
