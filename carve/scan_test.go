package carve

import (
	"strings"
	"testing"
)

func TestIndexCandidate(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", -1},
		{"no json here", -1},
		{"[", 0},
		{"{", 0},
		{"ab[cd", 2},
		{"ab{cd", 2},
		{"a{b[c", 1},
		{"a[b{c", 1},
		{"}]", -1},
		{"}[", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := indexCandidate([]byte(tt.input)); got != tt.want {
				t.Errorf("indexCandidate(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestNextCandidate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		from  int64
		want  int64
		ok    bool
	}{
		{"at start", "[1]", 0, 0, true},
		{"after garbage", "xxxx{1}", 0, 4, true},
		{"resume past first", "[1][2]", 1, 3, true},
		{"none", "no brackets at all", 0, 0, false},
		{"none after from", "[only one", 1, 0, false},
		{"far offset", strings.Repeat(".", 1000) + "{", 0, 1000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWindow(strings.NewReader(tt.input), 7)
			got, ok, err := nextCandidate(w, tt.from)
			if err != nil {
				t.Fatalf("nextCandidate: %v", err)
			}
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("nextCandidate = %d, %v, want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNextCandidateKeepsCandidateBuffered(t *testing.T) {
	w := newWindow(strings.NewReader("......[1]"), 4)
	got, ok, err := nextCandidate(w, 0)
	if err != nil || !ok || got != 6 {
		t.Fatalf("nextCandidate = %d, %v, %v, want 6, true, nil", got, ok, err)
	}
	if w.base > 6 {
		t.Errorf("base = %d, candidate byte must stay buffered", w.base)
	}
	b, ok, _ := w.at(got)
	if !ok || b != '[' {
		t.Errorf("at(%d) = %q, %v, want '[', true", got, b, ok)
	}
}
