package ringbuf

import (
	"io"
	"sync"
)

// WordReader is the word-oriented analogue of io.Reader.
type WordReader interface {
	Read(dst []uint32) (int, error)
}

// WordWriter is the word-oriented analogue of io.Writer.
type WordWriter interface {
	Write(src []uint32) (int, error)
}

var (
	_ WordReader = (*PipeReader)(nil)
	_ io.Closer  = (*PipeReader)(nil)
	_ WordWriter = (*PipeWriter)(nil)
	_ io.Closer  = (*PipeWriter)(nil)
)

type pipe struct {
	readerClosedErr error
	writerClosedErr error

	writerWait sync.Cond
	readerWait sync.Cond

	ring *RingBuffer
	mu   sync.Mutex

	readerClosed bool
	writerClosed bool
}

func newPipe(size int) *pipe {
	// New only fails for capacity < 1.
	ring, _ := New(size + 1)
	p := &pipe{ring: ring}
	p.writerWait.L = &p.mu
	p.readerWait.L = &p.mu
	return p
}

func (p *pipe) Read(dst []uint32) (n int, err error) {
	if len(dst) == 0 {
		return 0, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.waitForReadableLocked(); err != nil {
		return 0, err
	}

	wasFull := p.ring.Full()
	n = p.readChunkLocked(dst)

	if wasFull {
		p.writerWait.Signal()
	}

	return n, nil
}

func (p *pipe) Write(src []uint32) (n int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(src) > 0 {
		if err := p.waitForWritableLocked(); err != nil {
			return n, err
		}
		wasEmpty := p.ring.Empty()
		wrote := p.writeChunkLocked(src)
		src = src[wrote:]
		n += wrote
		if wasEmpty {
			p.readerWait.Signal()
		}
	}
	return n, nil
}

func (p *pipe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeReaderLocked(nil, false)
	return nil
}

func (p *pipe) closeReaderLocked(err error, withErr bool) {
	p.readerClosed = true
	if withErr && p.writerClosedErr == nil {
		if err == nil {
			err = io.ErrClosedPipe
		}
		p.writerClosedErr = err
	}
	p.readerWait.Broadcast()
	p.writerWait.Broadcast()
}

func (p *pipe) closeWriterLocked(err error, withErr bool) {
	p.writerClosed = true
	if withErr && p.readerClosedErr == nil {
		if err == nil {
			err = io.EOF
		}
		p.readerClosedErr = err
	}
	p.readerWait.Broadcast()
	p.writerWait.Broadcast()
}

func (p *pipe) closeWrite() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeWriterLocked(nil, false)
	return nil
}

func (p *pipe) readChunkLocked(dst []uint32) int {
	n := 0
	for n < len(dst) {
		v, err := p.ring.Pop()
		if err != nil {
			break
		}
		dst[n] = v
		n++
	}
	return n
}

func (p *pipe) writeChunkLocked(src []uint32) int {
	n := 0
	for n < len(src) {
		if p.ring.Push(src[n]) != nil {
			break
		}
		n++
	}
	return n
}

func (p *pipe) waitForReadableLocked() error {
	for {
		if !p.ring.Empty() {
			return nil
		}
		if p.readerClosed {
			if p.writerClosedErr != nil {
				return p.writerClosedErr
			}
			return io.ErrClosedPipe
		}
		if p.writerClosed {
			if p.readerClosedErr != nil {
				return p.readerClosedErr
			}
			return io.EOF
		}
		p.readerWait.Wait()
	}
}

func (p *pipe) waitForWritableLocked() error {
	for {
		if p.readerClosed {
			if p.writerClosedErr != nil {
				return p.writerClosedErr
			}
			return io.ErrClosedPipe
		}
		if p.writerClosed {
			return io.ErrClosedPipe
		}
		if !p.ring.Full() {
			return nil
		}
		p.writerWait.Wait()
	}
}

// Pipe creates a blocking word pipe that buffers up to size words between
// the writer and the reader. Writes wait while the buffer is full and reads
// wait while it is empty.
func Pipe(size int) (*PipeReader, *PipeWriter) {
	if size <= 0 {
		size = 1
	}
	p := newPipe(size)
	return &PipeReader{p}, &PipeWriter{p}
}

// PipeReader is the read half of a pipe.
type PipeReader struct {
	p *pipe
}

// Read reads up to len(dst) words, waiting until at least one is available.
func (r *PipeReader) Read(dst []uint32) (int, error) {
	return r.p.Read(dst)
}

// Close closes the reader side of the pipe.
func (r *PipeReader) Close() error {
	return r.p.Close()
}

// WriteTo reads words from the pipe and writes them to w until EOF or an
// error occurs.
func (r *PipeReader) WriteTo(w WordWriter) (n int64, err error) {
	return copyBuffered(r.Read, w.Write)
}

// CloseWithError closes the reader side of the pipe with an error.
// The error will be returned to future writes on the writer side.
func (r *PipeReader) CloseWithError(err error) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()
	r.p.closeReaderLocked(err, true)
	return nil
}

// PipeWriter is the write half of a pipe.
type PipeWriter struct {
	p *pipe
}

// Write writes all of src, waiting for space as needed.
func (w *PipeWriter) Write(src []uint32) (int, error) {
	return w.p.Write(src)
}

// ReadFrom reads words from r and writes them to the pipe until EOF or an
// error occurs.
func (w *PipeWriter) ReadFrom(r WordReader) (n int64, err error) {
	return copyBuffered(r.Read, w.Write)
}

// Close closes the writer side of the pipe.
func (w *PipeWriter) Close() error {
	return w.p.closeWrite()
}

// CloseWithError closes the writer side of the pipe with an error.
// The error will be returned to future reads on the reader side.
func (w *PipeWriter) CloseWithError(err error) error {
	w.p.mu.Lock()
	defer w.p.mu.Unlock()
	w.p.closeWriterLocked(err, true)
	return nil
}

func copyBuffered(read func([]uint32) (int, error), write func([]uint32) (int, error)) (int64, error) {
	buf := make([]uint32, 4*1024)
	var total int64
	for {
		n, rErr := read(buf)
		if n > 0 {
			wn, wErr := write(buf[:n])
			if wn < 0 || wn > n {
				wn = 0
				if wErr == nil {
					wErr = io.ErrShortWrite
				}
			}
			total += int64(wn)
			if wErr != nil {
				return total, wErr
			}
			if wn != n {
				return total, io.ErrShortWrite
			}
		}
		if rErr != nil {
			if rErr != io.EOF {
				return total, rErr
			}
			return total, nil
		}
	}
}
