// Package stream opens the tool's byte sources and sinks: files or the
// standard streams, with transparent decompression of container formats
// around the input. The carving engine itself only ever sees io.Reader and
// io.Writer; everything file-shaped lives here.
package stream

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression names accepted by OpenInput.
const (
	CompressNone = "none"
	CompressAuto = "auto"
	CompressGzip = "gzip"
	CompressZstd = "zstd"
	CompressLZ4  = "lz4"
	CompressS2   = "s2"
)

// Frame magics for auto detection.
var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
	magicS2   = []byte{0xff, 0x06, 0x00, 0x00}
)

// OpenInput opens path for reading, or stdin when path is empty, and wraps
// it in the requested decompressor. "auto" sniffs the frame magic and falls
// back to the raw stream when none matches. Offsets reported downstream
// refer to the decompressed stream.
func OpenInput(path, compression string) (io.ReadCloser, error) {
	var src io.ReadCloser = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		src = f
	}
	rc, err := wrapDecompress(src, compression)
	if err != nil {
		src.Close()
		return nil, err
	}
	return rc, nil
}

func wrapDecompress(src io.ReadCloser, compression string) (io.ReadCloser, error) {
	br := bufio.NewReader(src)
	if compression == CompressAuto {
		compression = sniff(br)
	}
	switch compression {
	case CompressNone:
		return &source{r: br, close: src}, nil
	case CompressGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		return &source{r: zr, close: src}, nil
	case CompressZstd:
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		return &source{r: zr, stop: zr.Close, close: src}, nil
	case CompressLZ4:
		return &source{r: lz4.NewReader(br), close: src}, nil
	case CompressS2:
		return &source{r: s2.NewReader(br), close: src}, nil
	default:
		return nil, fmt.Errorf("unknown compression %q", compression)
	}
}

// sniff returns the compression whose frame magic starts the stream, or
// "none". The peeked bytes stay in the reader.
func sniff(br *bufio.Reader) string {
	head, _ := br.Peek(4)
	switch {
	case bytes.HasPrefix(head, magicGzip):
		return CompressGzip
	case bytes.HasPrefix(head, magicZstd):
		return CompressZstd
	case bytes.HasPrefix(head, magicLZ4):
		return CompressLZ4
	case bytes.HasPrefix(head, magicS2):
		return CompressS2
	default:
		return CompressNone
	}
}

// source pairs a decoded reader with the file it draws from.
type source struct {
	r     io.Reader
	stop  func()
	close io.Closer
}

func (s *source) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

func (s *source) Close() error {
	if s.stop != nil {
		s.stop()
	}
	if s.close == os.Stdin {
		return nil
	}
	return s.close.Close()
}
