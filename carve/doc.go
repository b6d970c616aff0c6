// Package carve extracts structurally valid JSON values from arbitrary
// binary streams.
//
// # Overview
//
// The engine scans a byte stream for candidate offsets (every '[' or '{'
// byte), validates each candidate with a streaming pushdown automaton, and
// classifies the outcome as an Attempt: Valid with the exact carved span, or
// Corrupted with the offset of the failure and the last checkpoint at which
// the open containers could still have been closed into a valid document.
// Nothing is ever re-serialized; a carved span is the input's bytes,
// verbatim.
//
//	┌──────────────┐    ┌────────────────┐    ┌──────────────┐
//	│ byte stream  │───▶│ candidate scan │───▶│  validator   │
//	│ (io.Reader)  │    │ ('[' and '{')  │    │  (pushdown)  │
//	└──────────────┘    └────────────────┘    └──────┬───────┘
//	                                                  │ Attempt
//	                                    ┌─────────────┼─────────────┐
//	                                    ▼             ▼             ▼
//	                                 Emitter      Reporter      recovery
//	                                 (spans)      (records)    (closers)
//
// # Scanning model
//
// The cursor resumes one byte past each candidate's start, never at the
// attempt's end: overlapping and nested candidates are examined
// independently, so a valid value inside a larger value is also carved.
// The stream is consumed strictly forward through a retained window; an
// attempt may re-examine bytes it has already buffered, and the window is
// released up to the cursor once an attempt settles.
//
// # Checkpoints and recovery
//
// A checkpoint is an offset where closing every open container immediately
// would itself form a valid document: just after an opening bracket, and
// just after each element completes. Numbers and literals do not delimit
// themselves, so they only complete once a legal follower byte is seen; a
// token cut off by end of stream is never checkpointed, which keeps
// recovery from fabricating values that were not in the stream. Recovery
// truncates a corrupted attempt at its last checkpoint, appends one closing
// bracket per open frame, and re-validates the result before anything is
// emitted.
//
// # Validation strictness
//
// The automaton is strict RFC 8259: no trailing commas, no leading zeros,
// exact literals, raw control bytes rejected inside strings, \uXXXX escapes
// with correct UTF-16 surrogate pairing, and incremental UTF-8 validation
// of raw string bytes (shortest form, no encoded surrogates, max U+10FFFF).
package carve
