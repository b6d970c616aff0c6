package stream

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// OpenOutput opens path for writing, or falls back to def (stdout or
// stderr) when path is empty. Writes are buffered; Close flushes, and
// closes the file unless it is a standard stream.
func OpenOutput(path string, def *os.File) (io.WriteCloser, error) {
	f := def
	if path != "" {
		var err error
		f, err = os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create output: %w", err)
		}
	}
	return &sink{w: bufio.NewWriter(f), f: f, ownsFile: path != ""}, nil
}

type sink struct {
	w        *bufio.Writer
	f        *os.File
	ownsFile bool
}

func (s *sink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

func (s *sink) Close() error {
	err := s.w.Flush()
	if s.ownsFile {
		if cerr := s.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
