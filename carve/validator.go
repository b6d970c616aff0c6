package carve

import (
	"bytes"
	"errors"
)

// Automaton states for an open container frame.
const (
	stArrayFirst uint8 = iota // just opened: value or ]
	stArrayValue              // after a comma: value required
	stArrayNext               // after an element: , or ]
	stObjectFirst             // just opened: key or }
	stObjectKey               // after a comma: key required
	stObjectColon             // after a key: : required
	stObjectValue             // after a colon: value required
	stObjectNext              // after a member: , or }
)

type frame struct {
	kind  byte // '[' or '{'
	state uint8
}

// validator runs one attempt: a streaming pushdown automaton consuming
// exactly one JSON value from a fixed start offset.
//
// lastSafe tracks the most recent checkpoint: an offset at which closing
// every open frame immediately would yield a valid document, with no token
// partially consumed. Every frame push and pop records a checkpoint, so the
// frame stack at a failure point is always the stack at the last checkpoint.
type validator struct {
	w        *window
	start    int64
	pos      int64
	maxDepth int
	frames   []frame
	lastSafe int64
}

// validateAt validates one candidate against the stream window. The returned
// error is a read error from the source; data-level failures are encoded in
// the Attempt.
func validateAt(w *window, start int64, maxDepth int) (Attempt, error) {
	v := &validator{w: w, start: start, pos: start, maxDepth: maxDepth, lastSafe: -1}
	return v.run()
}

// validateBytes runs one attempt over an in-memory document.
func validateBytes(data []byte, start int64, maxDepth int) (Attempt, error) {
	return validateAt(newWindow(bytes.NewReader(data), 0), start, maxDepth)
}

func (v *validator) run() (Attempt, error) {
	err := v.value()
	for err == nil && len(v.frames) > 0 {
		err = v.step()
	}
	if err == nil {
		return Attempt{
			Start:    v.start,
			End:      v.pos,
			Status:   StatusValid,
			LastSafe: v.pos,
			maxDepth: v.maxDepth,
		}, nil
	}
	var ae *attemptError
	if !errors.As(err, &ae) {
		return Attempt{}, err
	}
	return Attempt{
		Start:    v.start,
		End:      ae.off,
		Status:   StatusCorrupted,
		LastSafe: v.lastSafe,
		closers:  v.closers(),
		maxDepth: v.maxDepth,
	}, nil
}

// step consumes one token for the innermost open frame.
func (v *validator) step() error {
	b, err := v.skipSpace()
	if err != nil {
		return err
	}
	switch v.top().state {
	case stArrayFirst:
		if b == ']' {
			return v.closeFrame()
		}
		return v.value()
	case stArrayValue:
		return v.value()
	case stArrayNext:
		switch b {
		case ',':
			v.pos++
			v.top().state = stArrayValue
			return nil
		case ']':
			return v.closeFrame()
		}
		return structural(v.pos)
	case stObjectFirst:
		if b == '}' {
			return v.closeFrame()
		}
		return v.key(b)
	case stObjectKey:
		return v.key(b)
	case stObjectColon:
		if b != ':' {
			return structural(v.pos)
		}
		v.pos++
		v.top().state = stObjectValue
		return nil
	case stObjectValue:
		return v.value()
	default: // stObjectNext
		switch b {
		case ',':
			v.pos++
			v.top().state = stObjectKey
			return nil
		case '}':
			return v.closeFrame()
		}
		return structural(v.pos)
	}
}

// value consumes one JSON value with the cursor on its first byte. Scalars
// complete the surrounding element in place; containers push a frame and
// leave completion to the step loop.
func (v *validator) value() error {
	b, ok, err := v.w.at(v.pos)
	if err != nil {
		return err
	}
	if !ok {
		return exhausted(v.pos)
	}
	switch {
	case b == '{' || b == '[':
		return v.push(b)
	case b == '"':
		v.pos++
		if err := v.lexString(); err != nil {
			return err
		}
		v.elementDone()
		return nil
	case b == '-' || isDigit(b):
		if err := v.lexNumber(); err != nil {
			return err
		}
		return v.tokenDone()
	case b == 't':
		return v.literal("true")
	case b == 'f':
		return v.literal("false")
	case b == 'n':
		return v.literal("null")
	}
	return structural(v.pos)
}

// key consumes an object key and moves the frame to the colon state. Keys
// record no checkpoint: an object cut after a key cannot be closed validly.
func (v *validator) key(b byte) error {
	if b != '"' {
		return structural(v.pos)
	}
	v.pos++
	if err := v.lexString(); err != nil {
		return err
	}
	v.top().state = stObjectColon
	return nil
}

func (v *validator) push(kind byte) error {
	if len(v.frames) >= v.maxDepth {
		return structural(v.pos)
	}
	state := stArrayFirst
	if kind == '{' {
		state = stObjectFirst
	}
	v.frames = append(v.frames, frame{kind: kind, state: state})
	v.pos++
	v.lastSafe = v.pos
	return nil
}

// closeFrame consumes the closing bracket of the innermost frame. The
// bracket always matches the frame kind because the dispatching states are
// container-specific.
func (v *validator) closeFrame() error {
	v.pos++
	v.frames = v.frames[:len(v.frames)-1]
	v.elementDone()
	return nil
}

// elementDone marks the value that just ended as a completed element of the
// enclosing container and records the checkpoint.
func (v *validator) elementDone() {
	if len(v.frames) > 0 {
		t := v.top()
		if t.kind == '[' {
			t.state = stArrayNext
		} else {
			t.state = stObjectNext
		}
	}
	v.lastSafe = v.pos
}

// tokenDone completes a number or literal. These tokens do not delimit
// themselves: inside a container the element counts as finished only once a
// legal follower byte is in view, so a token cut off by the end of the
// stream never becomes a checkpoint. At top level the token is the whole
// value and ends wherever it stops.
func (v *validator) tokenDone() error {
	if len(v.frames) == 0 {
		return nil
	}
	b, ok, err := v.w.at(v.pos)
	if err != nil {
		return err
	}
	if !ok {
		return exhausted(v.pos)
	}
	if isSpace(b) || b == ',' || b == ']' || b == '}' {
		v.elementDone()
		return nil
	}
	return structural(v.pos)
}

func (v *validator) literal(lit string) error {
	for i := 0; i < len(lit); i++ {
		b, ok, err := v.w.at(v.pos)
		if err != nil {
			return err
		}
		if !ok {
			return exhausted(v.pos)
		}
		if b != lit[i] {
			return structural(v.pos)
		}
		v.pos++
	}
	return v.tokenDone()
}

// lexNumber consumes a number token and leaves the cursor one past its last
// byte. The caller decides whether the byte after it legally ends the token.
func (v *validator) lexNumber() error {
	b, ok, err := v.peek()
	if err != nil {
		return err
	}
	if ok && b == '-' {
		v.pos++
		b, ok, err = v.peek()
		if err != nil {
			return err
		}
	}
	switch {
	case !ok:
		return exhausted(v.pos)
	case b == '0':
		v.pos++
	case isDigit(b):
		v.pos++
		if err := v.digits(); err != nil {
			return err
		}
	default:
		return structural(v.pos)
	}
	b, ok, err = v.peek()
	if err != nil {
		return err
	}
	if ok && b == '.' {
		v.pos++
		if err := v.requireDigits(); err != nil {
			return err
		}
		b, ok, err = v.peek()
		if err != nil {
			return err
		}
	}
	if ok && (b == 'e' || b == 'E') {
		v.pos++
		b, ok, err = v.peek()
		if err != nil {
			return err
		}
		if ok && (b == '+' || b == '-') {
			v.pos++
		}
		if err := v.requireDigits(); err != nil {
			return err
		}
	}
	return nil
}

// lexString consumes string content with the cursor one past the opening
// quote, leaving it one past the closing quote. All lexer state is local:
// backslash escapes, \uXXXX code units with surrogate pairing, and
// incremental validation of raw UTF-8 sequences (RFC 3629: shortest form
// only, no encoded surrogates, nothing above U+10FFFF).
func (v *validator) lexString() error {
	esc := false         // after a backslash
	hex := 0             // hex digits left in a \uXXXX escape
	var unit uint32      // code unit being accumulated
	pendingHigh := false // a high surrogate awaits its low pair
	u8rem := 0           // continuation bytes left in a raw UTF-8 sequence
	var u8min, u8max byte

	for {
		b, ok, err := v.w.at(v.pos)
		if err != nil {
			return err
		}
		if !ok {
			return exhausted(v.pos)
		}
		switch {
		case u8rem > 0:
			if b < u8min || b > u8max {
				return structural(v.pos)
			}
			u8min, u8max = 0x80, 0xBF
			u8rem--
		case hex > 0:
			d := hexDigit(b)
			if d < 0 {
				return structural(v.pos)
			}
			unit = unit<<4 | uint32(d)
			hex--
			if hex == 0 {
				switch {
				case pendingHigh:
					if unit < 0xDC00 || unit > 0xDFFF {
						return structural(v.pos)
					}
					pendingHigh = false
				case unit >= 0xD800 && unit <= 0xDBFF:
					pendingHigh = true
				case unit >= 0xDC00 && unit <= 0xDFFF:
					return structural(v.pos)
				}
			}
		case esc:
			esc = false
			switch b {
			case 'u':
				hex, unit = 4, 0
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				if pendingHigh {
					return structural(v.pos)
				}
			default:
				return structural(v.pos)
			}
		case pendingHigh && b != '\\':
			return structural(v.pos)
		case b == '"':
			v.pos++
			return nil
		case b == '\\':
			esc = true
		case b < 0x20:
			return structural(v.pos)
		case b >= 0x80:
			var lead int
			lead, u8min, u8max = utf8First(b)
			if lead < 0 {
				return structural(v.pos)
			}
			u8rem = lead
		}
		v.pos++
	}
}

func (v *validator) skipSpace() (byte, error) {
	for {
		b, ok, err := v.w.at(v.pos)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, exhausted(v.pos)
		}
		if !isSpace(b) {
			return b, nil
		}
		v.pos++
	}
}

func (v *validator) peek() (byte, bool, error) {
	return v.w.at(v.pos)
}

// digits consumes a run of ASCII digits.
func (v *validator) digits() error {
	for {
		b, ok, err := v.peek()
		if err != nil {
			return err
		}
		if !ok || !isDigit(b) {
			return nil
		}
		v.pos++
	}
}

// requireDigits consumes a run of at least one ASCII digit.
func (v *validator) requireDigits() error {
	b, ok, err := v.peek()
	if err != nil {
		return err
	}
	if !ok {
		return exhausted(v.pos)
	}
	if !isDigit(b) {
		return structural(v.pos)
	}
	v.pos++
	return v.digits()
}

func (v *validator) top() *frame {
	return &v.frames[len(v.frames)-1]
}

// closers returns the closing bytes for the open frames, innermost first.
func (v *validator) closers() []byte {
	if len(v.frames) == 0 {
		return nil
	}
	out := make([]byte, len(v.frames))
	for i, f := range v.frames {
		c := byte(']')
		if f.kind == '{' {
			c = '}'
		}
		out[len(out)-1-i] = c
	}
	return out
}

// utf8First classifies a UTF-8 lead byte, returning the continuation count
// and the allowed range of the first continuation byte. A negative count
// marks an invalid lead.
func utf8First(b byte) (rem int, min, max byte) {
	switch {
	case b < 0xC2:
		return -1, 0, 0
	case b < 0xE0:
		return 1, 0x80, 0xBF
	case b == 0xE0:
		return 2, 0xA0, 0xBF
	case b == 0xED:
		return 2, 0x80, 0x9F
	case b < 0xF0:
		return 2, 0x80, 0xBF
	case b == 0xF0:
		return 3, 0x90, 0xBF
	case b < 0xF4:
		return 3, 0x80, 0xBF
	case b == 0xF4:
		return 3, 0x80, 0x8F
	default:
		return -1, 0, 0
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func hexDigit(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	default:
		return -1
	}
}
