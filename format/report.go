// Package format turns attempt outcomes and carved spans into the tool's
// two line-oriented output streams: the CSV report and the span output.
package format

import (
	"io"
	"strconv"

	"github.com/jcarve/jcarve/carve"
)

// ReportWriter emits one CSV record per attempt:
//
//	status,start,end,last_safe
//
// Offsets are decimal byte offsets into the input stream. last_safe is blank
// for valid attempts and for corrupted attempts that never reached a
// checkpoint. By default only corrupted attempts are recorded; with All set,
// every attempt is.
type ReportWriter struct {
	w   io.Writer
	all bool
	buf []byte
}

// NewReportWriter returns a ReportWriter on w. With all set, valid attempts
// are recorded too.
func NewReportWriter(w io.Writer, all bool) *ReportWriter {
	return &ReportWriter{w: w, all: all}
}

// Report writes the record for one attempt.
func (r *ReportWriter) Report(a carve.Attempt) error {
	if a.Status == carve.StatusValid && !r.all {
		return nil
	}
	b := r.buf[:0]
	b = append(b, a.Status.String()...)
	b = append(b, ',')
	b = strconv.AppendInt(b, a.Start, 10)
	b = append(b, ',')
	b = strconv.AppendInt(b, a.End, 10)
	b = append(b, ',')
	if a.Status == carve.StatusCorrupted && a.LastSafe >= 0 {
		b = strconv.AppendInt(b, a.LastSafe, 10)
	}
	b = append(b, '\n')
	r.buf = b
	_, err := r.w.Write(b)
	return err
}
