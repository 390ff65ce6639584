package indexer

import (
	"fmt"
	"strings"
)

// ChunkText splits text into windows of size characters, each starting
// size-overlap characters after the previous one. Text that fits in one
// window is returned whole; empty text yields no chunks. The final window
// runs to the end of the text and may be shorter than size.
func ChunkText(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, &UnsupportedInputError{Msg: fmt.Sprintf("chunk size must be positive, got %d", size)}
	}
	if overlap < 0 || overlap >= size {
		return nil, &UnsupportedInputError{Msg: fmt.Sprintf("chunk overlap %d must be in [0, %d)", overlap, size)}
	}

	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return []string{}, nil
	}
	if len(runes) <= size {
		return []string{string(runes)}, nil
	}

	step := size - overlap
	chunks := []string{}
	for start := 0; start < len(runes); start += step {
		end := start + size
		last := end >= len(runes)
		if last {
			end = len(runes)
		}
		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			chunks = append(chunks, piece)
		}
		if last {
			break
		}
	}
	return chunks, nil
}
