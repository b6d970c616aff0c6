package carve

import (
	"fmt"
	"io"
)

// Emitter receives carved and recovered spans. The span is only valid for
// the duration of the call.
type Emitter interface {
	Emit(span []byte) error
}

// Reporter receives the outcome of every attempt.
type Reporter interface {
	Report(a Attempt) error
}

// Stats summarizes one run.
type Stats struct {
	Attempts  int
	Valid     int
	Corrupted int
	Recovered int
	Bytes     int64
}

// Carver drives the scan loop over one input stream.
type Carver struct {
	r        io.Reader
	emit     Emitter
	report   Reporter
	fix      bool
	maxDepth int
	chunk    int
}

// Option configures a Carver.
type Option func(*Carver)

// WithEmitter routes carved and recovered spans to e.
func WithEmitter(e Emitter) Option {
	return func(c *Carver) { c.emit = e }
}

// WithReporter routes attempt outcomes to r.
func WithReporter(r Reporter) Option {
	return func(c *Carver) { c.report = r }
}

// WithRecovery emits truncated candidates closed at their last checkpoint.
func WithRecovery() Option {
	return func(c *Carver) { c.fix = true }
}

// WithMaxDepth overrides the container nesting limit.
func WithMaxDepth(n int) Option {
	return func(c *Carver) {
		if n >= 0 {
			c.maxDepth = n
		}
	}
}

// New returns a Carver reading from r.
func New(r io.Reader, opts ...Option) *Carver {
	c := &Carver{r: r, maxDepth: DefaultMaxDepth, chunk: defaultChunk}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run scans the whole stream. Every '[' or '{' byte is a candidate; each is
// validated independently and the cursor then resumes one byte past the
// candidate's start, so values nested inside other values are carved in
// their own right. Corruption never stops the run; only source read and
// sink write errors do.
func (c *Carver) Run() (Stats, error) {
	var st Stats
	w := newWindow(c.r, c.chunk)
	var cursor int64
	for {
		start, ok, err := nextCandidate(w, cursor)
		if err != nil {
			return st, fmt.Errorf("read input: %w", err)
		}
		if !ok {
			st.Bytes = w.end()
			return st, nil
		}
		w.release(start)
		att, err := validateAt(w, start, c.maxDepth)
		if err != nil {
			return st, fmt.Errorf("read input: %w", err)
		}
		st.Attempts++
		switch att.Status {
		case StatusValid:
			st.Valid++
			if c.emit != nil {
				if err := c.emit.Emit(w.slice(att.Start, att.End)); err != nil {
					return st, fmt.Errorf("write output: %w", err)
				}
			}
		case StatusCorrupted:
			st.Corrupted++
			if c.fix && c.emit != nil && att.Recoverable() {
				if span, ok := compose(w.slice(att.Start, att.LastSafe), att); ok {
					st.Recovered++
					if err := c.emit.Emit(span); err != nil {
						return st, fmt.Errorf("write output: %w", err)
					}
				}
			}
		}
		if c.report != nil {
			if err := c.report.Report(att); err != nil {
				return st, fmt.Errorf("write report: %w", err)
			}
		}
		cursor = start + 1
		w.release(cursor)
	}
}
