package stream

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

const payload = `{"dump": [1, 2, 3], "id": "0xdeadbeef"}`

func compress(t *testing.T, compression string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	switch compression {
	case CompressGzip:
		w = gzip.NewWriter(&buf)
	case CompressZstd:
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			t.Fatalf("zstd.NewWriter: %v", err)
		}
		w = zw
	case CompressLZ4:
		w = lz4.NewWriter(&buf)
	case CompressS2:
		w = s2.NewWriter(&buf)
	default:
		t.Fatalf("unknown compression %q", compression)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("compress write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("compress close: %v", err)
	}
	return buf.Bytes()
}

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func readAll(t *testing.T, path, compression string) string {
	t.Helper()
	rc, err := OpenInput(path, compression)
	if err != nil {
		t.Fatalf("OpenInput(%q, %q): %v", path, compression, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}

func TestOpenInputPlain(t *testing.T) {
	path := writeTemp(t, []byte(payload))
	if got := readAll(t, path, CompressNone); got != payload {
		t.Errorf("read = %q, want %q", got, payload)
	}
}

func TestOpenInputDecompress(t *testing.T) {
	formats := []string{CompressGzip, CompressZstd, CompressLZ4, CompressS2}

	for _, compression := range formats {
		t.Run(compression, func(t *testing.T) {
			path := writeTemp(t, compress(t, compression, []byte(payload)))

			if got := readAll(t, path, compression); got != payload {
				t.Errorf("explicit %s = %q, want %q", compression, got, payload)
			}
			if got := readAll(t, path, CompressAuto); got != payload {
				t.Errorf("auto-detected %s = %q, want %q", compression, got, payload)
			}
		})
	}
}

func TestOpenInputAutoFallsBackToRaw(t *testing.T) {
	// Binary garbage that matches no frame magic passes through untouched.
	raw := append([]byte{0x00, 0x01, 0x02, 0x03}, payload...)
	path := writeTemp(t, raw)
	if got := readAll(t, path, CompressAuto); got != string(raw) {
		t.Errorf("read = %q, want raw bytes", got)
	}
}

func TestOpenInputUnknownCompression(t *testing.T) {
	path := writeTemp(t, []byte(payload))
	if _, err := OpenInput(path, "brotli"); err == nil {
		t.Error("OpenInput with unknown compression succeeded, want error")
	}
}

func TestOpenInputMissingFile(t *testing.T) {
	if _, err := OpenInput(filepath.Join(t.TempDir(), "absent"), CompressNone); err == nil {
		t.Error("OpenInput on a missing file succeeded, want error")
	}
}

func TestOpenOutputWritesAndFlushes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	wc, err := OpenOutput(path, os.Stdout)
	if err != nil {
		t.Fatalf("OpenOutput: %v", err)
	}
	if _, err := wc.Write([]byte(payload)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := wc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != payload {
		t.Errorf("file = %q, want %q", data, payload)
	}
}
