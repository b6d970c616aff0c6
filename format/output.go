package format

import (
	"io"

	"github.com/cespare/xxhash/v2"
)

// SpanWriter emits carved and recovered spans, one per line. Spans shorter
// than the minimum size are dropped silently. Newline collapsing replaces
// each LF inside a span with a space; this is a display transform applied to
// the emitted copy only, never to the bytes used for validation, so report
// offsets always refer to the raw stream. Deduplication hashes raw span
// bytes and suppresses repeats, which forensic dumps produce in bulk.
type SpanWriter struct {
	w        io.Writer
	minSize  int
	collapse bool
	seen     map[uint64]struct{}
	buf      []byte
}

// SpanOption configures a SpanWriter.
type SpanOption func(*SpanWriter)

// WithMinSize drops spans shorter than n bytes. Negative n means no filter.
func WithMinSize(n int) SpanOption {
	return func(s *SpanWriter) { s.minSize = n }
}

// WithNewlineCollapse replaces newlines inside emitted spans with spaces.
func WithNewlineCollapse() SpanOption {
	return func(s *SpanWriter) { s.collapse = true }
}

// WithDedup suppresses spans whose bytes have been emitted before.
func WithDedup() SpanOption {
	return func(s *SpanWriter) { s.seen = make(map[uint64]struct{}) }
}

// NewSpanWriter returns a SpanWriter on w.
func NewSpanWriter(w io.Writer, opts ...SpanOption) *SpanWriter {
	s := &SpanWriter{w: w}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Emit writes one span as a single record. The span is only read for the
// duration of the call.
func (s *SpanWriter) Emit(span []byte) error {
	if len(span) < s.minSize {
		return nil
	}
	if s.seen != nil {
		sum := xxhash.Sum64(span)
		if _, dup := s.seen[sum]; dup {
			return nil
		}
		s.seen[sum] = struct{}{}
	}
	b := append(s.buf[:0], span...)
	if s.collapse {
		for i, c := range b {
			if c == '\n' {
				b[i] = ' '
			}
		}
	}
	b = append(b, '\n')
	s.buf = b
	_, err := s.w.Write(b)
	return err
}
