package rag

import (
	"strings"
	"testing"
)

func TestBuildContext(t *testing.T) {
	if got := BuildContext(nil); got != "" {
		t.Errorf("BuildContext(nil) = %q, want empty", got)
	}

	got := BuildContext([]SearchResult{
		{ID: "c1", DocumentID: "doc-a", Content: "Go has goroutines.", ChunkIndex: 2},
		{ID: "c2", DocumentID: "doc-b", Content: "Channels connect them.", ChunkIndex: 0},
	})

	if !strings.HasPrefix(got, ContextPrompt) {
		t.Errorf("BuildContext() should start with the context prompt, got %q", got)
	}
	first := strings.Index(got, "Go has goroutines.")
	second := strings.Index(got, "Channels connect them.")
	if first < 0 || second < 0 || first > second {
		t.Errorf("BuildContext() should list chunks in ranked order, got %q", got)
	}
	for _, want := range []string{"[1] Document: doc-a, chunk 2", "[2] Document: doc-b, chunk 0", "--- End Context ---"} {
		if !strings.Contains(got, want) {
			t.Errorf("BuildContext() missing %q", want)
		}
	}
}
