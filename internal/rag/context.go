package rag

import (
	"fmt"
	"strings"
)

// ContextPrompt introduces retrieved chunks to the model.
const ContextPrompt = "You are a helpful assistant. Use the context below from the user's knowledge base " +
	"when it is relevant to the conversation. If the context doesn't contain the answer, say so " +
	"rather than guessing."

// BuildContext formats search results as a system prompt. It returns ""
// when there is nothing to add.
func BuildContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(ContextPrompt)
	b.WriteString("\n\n--- Context from knowledge base ---\n\n")
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] Document: %s, chunk %d\n", i+1, r.DocumentID, r.ChunkIndex)
		b.WriteString(r.Content)
		b.WriteString("\n\n")
	}
	b.WriteString("--- End Context ---")
	return b.String()
}
