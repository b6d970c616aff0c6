package carve

import "bytes"

// nextCandidate returns the offset of the first '[' or '{' at or after off.
// Bytes behind a miss are released as scanning advances; the candidate byte
// itself stays buffered.
func nextCandidate(w *window, off int64) (int64, bool, error) {
	if off < w.base {
		off = w.base
	}
	for {
		if hi := w.end(); off < hi {
			if i := indexCandidate(w.slice(off, hi)); i >= 0 {
				return off + int64(i), true, nil
			}
			off = hi
			w.release(hi)
		}
		ok, err := w.fill()
		if err != nil {
			return 0, false, err
		}
		if !ok {
			return 0, false, nil
		}
	}
}

// indexCandidate is the hot path of the scan: two memchr passes over the
// buffered segment, taking the earlier hit.
func indexCandidate(p []byte) int {
	i := bytes.IndexByte(p, '[')
	j := bytes.IndexByte(p, '{')
	switch {
	case i < 0:
		return j
	case j < 0:
		return i
	case i < j:
		return i
	default:
		return j
	}
}
