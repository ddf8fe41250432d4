package ringbuf_test

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/ringbuf"
)

func TestPipeBasic(t *testing.T) {
	r, w := newTestPipe(t, 10)

	data := words(11)
	go func() {
		mustWrite(t, w, data)
		w.Close()
	}()

	buf := readFull(t, r, len(data))
	assert.Equal(t, data, buf)

	_, err := r.Read(make([]uint32, 1))
	assert.Equal(t, io.EOF, err)
}

func TestPipeBlocking(t *testing.T) {
	r, w := newTestPipe(t, 2)

	data := words(5)

	var (
		wg       sync.WaitGroup
		writeErr error
	)
	wg.Go(func() {
		_, writeErr = w.Write(data)
	})

	time.Sleep(10 * time.Millisecond)

	buf := readFull(t, r, len(data))
	wg.Wait()
	require.NoError(t, writeErr)
	assert.Equal(t, data, buf)
}

func TestPipeWrapAround(t *testing.T) {
	r, w := newTestPipe(t, 4)

	mustWrite(t, w, []uint32{1, 2, 3, 4})
	mustRead(t, r, []uint32{1, 2})
	mustWrite(t, w, []uint32{5, 6})

	assert.Equal(t, []uint32{3, 4, 5, 6}, readFull(t, r, 4))
}

func TestPipeWriteFailsAfterReaderClose(t *testing.T) {
	r, w := newTestPipe(t, 10)
	r.Close()

	_, err := w.Write([]uint32{1})
	assert.Equal(t, io.ErrClosedPipe, err)
}

func TestPipeReadBufferedAfterReaderClose(t *testing.T) {
	r, w := newTestPipe(t, 8)
	mustWrite(t, w, []uint32{1, 2})
	r.Close()

	mustRead(t, r, []uint32{1, 2})

	_, err := r.Read(make([]uint32, 1))
	assert.Equal(t, io.ErrClosedPipe, err)
}

func TestPipeWriteFailsAfterWriterClose(t *testing.T) {
	_, w := newTestPipe(t, 4)
	require.NoError(t, w.Close())

	_, err := w.Write([]uint32{1})
	assert.Equal(t, io.ErrClosedPipe, err)
}

func TestPipeCloseWithError(t *testing.T) {
	t.Run("WriterCloseWithError", func(t *testing.T) {
		r, w := newTestPipe(t, 10)

		customErr := errors.New("custom write error")
		w.CloseWithError(customErr)

		_, err := r.Read(make([]uint32, 10))
		assert.Equal(t, customErr, err)
	})

	t.Run("WriterCloseWithNilError", func(t *testing.T) {
		r, w := newTestPipe(t, 10)

		w.CloseWithError(nil)

		_, err := r.Read(make([]uint32, 10))
		assert.Equal(t, io.EOF, err)
	})

	t.Run("ReaderCloseWithError", func(t *testing.T) {
		r, w := newTestPipe(t, 10)

		customErr := errors.New("custom read error")
		r.CloseWithError(customErr)

		_, err := w.Write([]uint32{1})
		assert.Equal(t, customErr, err)
	})

	t.Run("CloseWithErrorDoesNotOverwrite", func(t *testing.T) {
		r, w := newTestPipe(t, 10)

		firstErr := errors.New("first error")
		w.CloseWithError(firstErr)
		w.CloseWithError(errors.New("second error"))

		_, err := r.Read(make([]uint32, 10))
		assert.Equal(t, firstErr, err)
	})
}

func TestPipeZeroLengthRead(t *testing.T) {
	r, w := newTestPipe(t, 10)

	n, err := r.Read(nil)
	assert.Zero(t, n)
	assert.NoError(t, err)

	mustWrite(t, w, []uint32{7})
	n, err = r.Read([]uint32{})
	assert.Zero(t, n)
	assert.NoError(t, err)

	mustRead(t, r, []uint32{7})
}

func TestPipeSizes(t *testing.T) {
	for _, size := range []int{-1, 0, 1} {
		r, w := newTestPipe(t, size)
		data := words(9)

		var (
			wg  sync.WaitGroup
			got []uint32
		)
		wg.Go(func() {
			got = readFull(t, r, len(data))
		})

		time.Sleep(10 * time.Millisecond)
		mustWrite(t, w, data)
		wg.Wait()

		assert.Equal(t, data, got, "size %d", size)
	}
}

func TestPipeCopyIntegrity(t *testing.T) {
	r, w := newTestPipe(t, 64)
	data := words(100 * 1024)

	var (
		wg       sync.WaitGroup
		writeErr error
		readErr  error
		sink     sliceWriter
	)
	wg.Go(func() {
		defer w.Close()
		for i := 0; i < len(data); i += 17 {
			if _, err := w.Write(data[i:min(i+17, len(data))]); err != nil {
				writeErr = err
				return
			}
		}
	})
	wg.Go(func() {
		_, readErr = r.WriteTo(&sink)
	})
	wg.Wait()

	require.NoError(t, writeErr)
	require.NoError(t, readErr)
	assert.Equal(t, data, sink.words)
}

func TestPipeReadFrom(t *testing.T) {
	r, w := newTestPipe(t, 10)
	data := words(37)

	go func() {
		defer w.Close()
		n, err := w.ReadFrom(&sliceReader{words: data})
		assert.NoError(t, err)
		assert.EqualValues(t, len(data), n)
	}()

	var sink sliceWriter
	n, err := r.WriteTo(&sink)
	require.NoError(t, err)
	assert.EqualValues(t, len(data), n)
	assert.Equal(t, data, sink.words)
}

func TestPipeWriteToShortWrite(t *testing.T) {
	r, w := newTestPipe(t, 10)
	mustWrite(t, w, words(9))
	w.Close()

	_, err := r.WriteTo(&failingWriter{failAfter: 4})
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

func TestPipeReadFromError(t *testing.T) {
	_, w := newTestPipe(t, 10)

	readErr := errors.New("read failed")
	_, err := w.ReadFrom(&sliceReader{words: words(9), failAfter: 4, err: readErr})
	assert.Equal(t, readErr, err)
}

func TestPipeCloseWhileBlocked(t *testing.T) {
	t.Run("CloseWhileReading", func(t *testing.T) {
		r, _ := newTestPipe(t, 1)

		var (
			wg      sync.WaitGroup
			readErr error
		)
		wg.Go(func() {
			_, readErr = r.Read(make([]uint32, 4))
		})

		time.Sleep(10 * time.Millisecond)
		r.Close()
		wg.Wait()
		assert.Equal(t, io.ErrClosedPipe, readErr)
	})

	t.Run("CloseWhileWriting", func(t *testing.T) {
		r, w := newTestPipe(t, 1)
		mustWrite(t, w, []uint32{1})

		var (
			wg       sync.WaitGroup
			writeErr error
		)
		wg.Go(func() {
			_, writeErr = w.Write([]uint32{2, 3})
		})

		time.Sleep(10 * time.Millisecond)
		r.Close()
		wg.Wait()
		assert.Equal(t, io.ErrClosedPipe, writeErr)
	})
}

func TestPipeDoubleClose(t *testing.T) {
	r, w := newTestPipe(t, 10)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

type sliceWriter struct {
	words []uint32
}

func (s *sliceWriter) Write(src []uint32) (int, error) {
	s.words = append(s.words, src...)
	return len(src), nil
}

type sliceReader struct {
	words     []uint32
	pos       int
	failAfter int
	err       error
}

func (s *sliceReader) Read(dst []uint32) (int, error) {
	if s.err != nil && s.pos >= s.failAfter {
		return 0, s.err
	}
	if s.pos == len(s.words) {
		return 0, io.EOF
	}
	end := len(s.words)
	if s.err != nil {
		end = s.failAfter
	}
	n := copy(dst, s.words[s.pos:end])
	s.pos += n
	return n, nil
}

type failingWriter struct {
	written   int
	failAfter int
}

func (f *failingWriter) Write(src []uint32) (int, error) {
	if f.written >= f.failAfter {
		return 0, errors.New("write failed")
	}
	n := min(len(src), f.failAfter-f.written)
	f.written += n
	return n, nil
}

func words(n int) []uint32 {
	w := make([]uint32, n)
	for i := range w {
		w[i] = uint32(i * 7)
	}
	return w
}

func newTestPipe(t *testing.T, size int) (*ringbuf.PipeReader, *ringbuf.PipeWriter) {
	t.Helper()
	r, w := ringbuf.Pipe(size)
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})
	return r, w
}

func mustWrite(t *testing.T, w *ringbuf.PipeWriter, data []uint32) {
	t.Helper()
	n, err := w.Write(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
}

func mustRead(t *testing.T, r *ringbuf.PipeReader, expected []uint32) {
	t.Helper()
	buf := make([]uint32, len(expected))
	n, err := r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, len(expected), n)
	require.Equal(t, expected, buf)
}

func readFull(t *testing.T, r *ringbuf.PipeReader, n int) []uint32 {
	t.Helper()
	buf := make([]uint32, n)
	for got := 0; got < n; {
		m, err := r.Read(buf[got:])
		require.NoError(t, err)
		got += m
	}
	return buf
}
