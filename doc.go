// Package ringbuf provides a fixed-capacity circular FIFO of uint32 values.
//
// RingBuffer keeps one slot free to tell an empty buffer from a full one, so
// a buffer built with capacity n holds at most n-1 values. Push and Pop never
// block: they return ErrFull and ErrEmpty and leave the buffer unchanged.
// Locked adds a mutex for shared use, and Pipe builds a blocking
// producer/consumer pipe on top of the same buffer.
package ringbuf
