package indexer

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunkText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		size    int
		overlap int
		want    []string
	}{
		{
			name:    "fits in one window",
			text:    "Hello world",
			size:    100,
			overlap: 20,
			want:    []string{"Hello world"},
		},
		{
			name:    "empty",
			text:    "",
			size:    10,
			overlap: 2,
			want:    []string{},
		},
		{
			name:    "whitespace only",
			text:    "  \n\t ",
			size:    10,
			overlap: 2,
			want:    []string{},
		},
		{
			name:    "trims input",
			text:    "   hi  ",
			size:    10,
			overlap: 2,
			want:    []string{"hi"},
		},
		{
			name:    "exact windows",
			text:    "abcdefghij",
			size:    4,
			overlap: 1,
			want:    []string{"abcd", "defg", "ghij"},
		},
		{
			name:    "short final window",
			text:    "abcdefghijk",
			size:    4,
			overlap: 1,
			want:    []string{"abcd", "defg", "ghij", "jk"},
		},
		{
			name:    "no overlap",
			text:    "abcdef",
			size:    3,
			overlap: 0,
			want:    []string{"abc", "def"},
		},
		{
			name:    "drops whitespace windows",
			text:    "ab      cd",
			size:    4,
			overlap: 0,
			want:    []string{"ab", "cd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ChunkText(tt.text, tt.size, tt.overlap)
			if err != nil {
				t.Fatalf("ChunkText() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ChunkText() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestChunkText_Coverage(t *testing.T) {
	text := strings.Repeat("a", 100)
	chunks, err := ChunkText(text, 40, 10)
	if err != nil {
		t.Fatalf("ChunkText() error = %v", err)
	}
	if len(chunks) < 3 {
		t.Fatalf("got %d chunks, want at least 3", len(chunks))
	}
	if len(chunks[0]) != 40 {
		t.Errorf("first chunk length = %d, want 40", len(chunks[0]))
	}

	// Chunk i starts at i*(size-overlap); the last one reaches the end of the text.
	covered := 0
	for i, c := range chunks {
		start := i * 30
		end := start + len(c)
		if end > covered {
			covered = end
		}
		if i > 0 {
			prevEnd := (i-1)*30 + len(chunks[i-1])
			if prevEnd-start != 10 {
				t.Errorf("overlap between chunk %d and %d = %d, want 10", i-1, i, prevEnd-start)
			}
		}
	}
	if covered != len(text) {
		t.Errorf("chunks cover %d characters, want %d", covered, len(text))
	}
}

func TestChunkText_CountsCharacters(t *testing.T) {
	text := strings.Repeat("é", 50)
	chunks, err := ChunkText(text, 20, 5)
	if err != nil {
		t.Fatalf("ChunkText() error = %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
	}
	if n := utf8.RuneCountInString(chunks[0]); n != 20 {
		t.Errorf("first chunk has %d characters, want 20", n)
	}
	if n := utf8.RuneCountInString(chunks[2]); n != 20 {
		t.Errorf("last chunk has %d characters, want 20", n)
	}
}

func TestChunkText_InvalidParameters(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{name: "overlap equals size", size: 10, overlap: 10},
		{name: "overlap exceeds size", size: 10, overlap: 20},
		{name: "negative overlap", size: 10, overlap: -1},
		{name: "zero size", size: 0, overlap: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ChunkText("some text that is long enough", tt.size, tt.overlap)
			var inputErr *UnsupportedInputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("ChunkText() error = %v, want UnsupportedInputError", err)
			}
		})
	}
}
