package format

import (
	"strings"
	"testing"
)

func emitAll(t *testing.T, s *SpanWriter, spans ...string) {
	t.Helper()
	for _, span := range spans {
		if err := s.Emit([]byte(span)); err != nil {
			t.Fatalf("Emit(%q): %v", span, err)
		}
	}
}

func TestSpanWriterMinSize(t *testing.T) {
	var sb strings.Builder
	s := NewSpanWriter(&sb, WithMinSize(9))

	emitAll(t, s, `[1,2]`, `["test", null, 1]`)

	want := "[\"test\", null, 1]\n"
	if sb.String() != want {
		t.Errorf("output = %q, want %q", sb.String(), want)
	}
}

func TestSpanWriterNewlineCollapse(t *testing.T) {
	var sb strings.Builder
	s := NewSpanWriter(&sb, WithNewlineCollapse())

	span := "{\n  \"long\": \"json\"\n}"
	emitAll(t, s, span)

	want := "{   \"long\": \"json\" }\n"
	if sb.String() != want {
		t.Errorf("output = %q, want %q", sb.String(), want)
	}
	if !strings.Contains(span, "\n") {
		t.Error("input span mutated by collapse")
	}
}

func TestSpanWriterCollapseLeavesSourceIntact(t *testing.T) {
	var sb strings.Builder
	s := NewSpanWriter(&sb, WithNewlineCollapse())

	span := []byte("[1,\n2]")
	if err := s.Emit(span); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if string(span) != "[1,\n2]" {
		t.Errorf("source span = %q after Emit, want unchanged", span)
	}
}

func TestSpanWriterDedup(t *testing.T) {
	var sb strings.Builder
	s := NewSpanWriter(&sb, WithDedup())

	emitAll(t, s, `[1,2]`, `[3,4]`, `[1,2]`, `[1,2]`, `[3,4]`)

	want := "[1,2]\n[3,4]\n"
	if sb.String() != want {
		t.Errorf("output = %q, want %q", sb.String(), want)
	}
}

func TestSpanWriterRecordSeparator(t *testing.T) {
	var sb strings.Builder
	s := NewSpanWriter(&sb)

	emitAll(t, s, `{}`, `[]`)

	if sb.String() != "{}\n[]\n" {
		t.Errorf("output = %q, want one record per line", sb.String())
	}
}
