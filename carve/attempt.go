package carve

import "fmt"

// Status classifies the outcome of validating one candidate.
type Status uint8

const (
	StatusValid Status = iota
	StatusCorrupted
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusCorrupted:
		return "corrupted"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Attempt is the result of validating one candidate offset.
//
// For a Valid attempt the byte span [Start, End) is the carved JSON value,
// verbatim. For a Corrupted attempt End is the offset of the offending byte,
// or the stream length when the stream ended mid-value. LastSafe is the most
// recent checkpoint, or -1 when the attempt never reached one.
type Attempt struct {
	Start    int64
	End      int64
	Status   Status
	LastSafe int64

	closers  []byte
	maxDepth int
}

// Recoverable reports whether a recovery can be attempted: the attempt is
// Corrupted and a checkpoint was reached.
func (a Attempt) Recoverable() bool {
	return a.Status == StatusCorrupted && a.LastSafe >= 0
}

// attemptError carries a data-level validation failure through the
// automaton. Source read errors are never wrapped in it.
type attemptError struct {
	off int64
	eof bool
}

func (e *attemptError) Error() string {
	if e.eof {
		return fmt.Sprintf("input exhausted at offset %d", e.off)
	}
	return fmt.Sprintf("unexpected byte at offset %d", e.off)
}

func structural(off int64) error { return &attemptError{off: off} }

func exhausted(off int64) error { return &attemptError{off: off, eof: true} }
