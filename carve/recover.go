package carve

// DefaultMaxDepth bounds container nesting per attempt. Hostile input can
// open frames much faster than it closes them; the stack grows on demand
// only up to this limit.
const DefaultMaxDepth = 16384

// Recover builds the recovery for a Corrupted attempt over in-memory data:
// the verbatim bytes [Start, LastSafe) plus one closing bracket per open
// frame, innermost first. The result is re-validated; Recover fails rather
// than return anything that does not stand alone as a valid document.
func Recover(data []byte, a Attempt) ([]byte, bool) {
	if !a.Recoverable() || a.LastSafe < a.Start || a.LastSafe > int64(len(data)) {
		return nil, false
	}
	return compose(data[a.Start:a.LastSafe], a)
}

// compose assembles prefix + closers and re-validates the result.
func compose(prefix []byte, a Attempt) ([]byte, bool) {
	out := make([]byte, 0, len(prefix)+len(a.closers))
	out = append(out, prefix...)
	out = append(out, a.closers...)
	depth := a.maxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	chk, err := validateBytes(out, 0, depth)
	if err != nil || chk.Status != StatusValid || chk.End != int64(len(out)) {
		return nil, false
	}
	return out, true
}

// Document validates data as exactly one JSON document: a single value with
// optional surrounding whitespace. On rejection the returned Attempt
// describes the failure; a complete value followed by trailing garbage is
// Corrupted at the first trailing byte, with the value's end as LastSafe so
// Recover can still extract it.
func Document(data []byte) (Attempt, bool) {
	i := int64(0)
	for i < int64(len(data)) && isSpace(data[i]) {
		i++
	}
	if i == int64(len(data)) {
		return Attempt{Start: i, End: i, Status: StatusCorrupted, LastSafe: -1}, false
	}
	att, err := validateBytes(data, i, DefaultMaxDepth)
	if err != nil || att.Status != StatusValid {
		return att, false
	}
	j := att.End
	for j < int64(len(data)) && isSpace(data[j]) {
		j++
	}
	if j < int64(len(data)) {
		return Attempt{
			Start:    att.Start,
			End:      j,
			Status:   StatusCorrupted,
			LastSafe: att.End,
			maxDepth: DefaultMaxDepth,
		}, false
	}
	return att, true
}
