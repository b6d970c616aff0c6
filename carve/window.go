package carve

import "io"

const defaultChunk = 64 << 10

// window is a buffered view over a forward-only byte stream, addressed by
// absolute stream offsets. Bytes are retained from the release point onward
// so an attempt can re-examine input it has already pulled from the source.
type window struct {
	r     io.Reader
	buf   []byte
	base  int64
	chunk int
	eof   bool
	err   error
}

func newWindow(r io.Reader, chunk int) *window {
	if chunk <= 0 {
		chunk = defaultChunk
	}
	return &window{r: r, chunk: chunk}
}

// end returns the offset one past the last buffered byte.
func (w *window) end() int64 {
	return w.base + int64(len(w.buf))
}

// at returns the byte at offset off, filling the buffer as needed. ok is
// false when the stream ends before off. The error is a real read error,
// never io.EOF.
func (w *window) at(off int64) (byte, bool, error) {
	for off >= w.end() {
		ok, err := w.fill()
		if err != nil {
			return 0, false, err
		}
		if !ok {
			return 0, false, nil
		}
	}
	return w.buf[off-w.base], true, nil
}

// slice returns the buffered bytes [lo, hi). Both offsets must lie inside
// the retained window. The slice is valid until the next release or fill.
func (w *window) slice(lo, hi int64) []byte {
	return w.buf[lo-w.base : hi-w.base]
}

// release drops buffered bytes below off.
func (w *window) release(off int64) {
	if off <= w.base {
		return
	}
	if off > w.end() {
		off = w.end()
	}
	n := copy(w.buf, w.buf[off-w.base:])
	w.buf = w.buf[:n]
	w.base = off
}

// fill reads one more chunk from the source. It returns false at end of
// stream and sticks on the first real read error. A chunk that arrives
// together with an error is delivered first; the error surfaces on the
// next call.
func (w *window) fill() (bool, error) {
	if w.err != nil {
		return false, w.err
	}
	if w.eof {
		return false, nil
	}
	if cap(w.buf)-len(w.buf) < w.chunk {
		grown := make([]byte, len(w.buf), len(w.buf)+w.chunk)
		copy(grown, w.buf)
		w.buf = grown
	}
	for {
		n, err := w.r.Read(w.buf[len(w.buf) : len(w.buf)+w.chunk])
		w.buf = w.buf[:len(w.buf)+n]
		if err == io.EOF {
			w.eof = true
			return n > 0, nil
		}
		if err != nil {
			w.err = err
			if n > 0 {
				return true, nil
			}
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
}
