package llm

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// partsReader returns one part per Read call.
type partsReader struct {
	parts []string
}

func (r *partsReader) Read(p []byte) (int, error) {
	if len(r.parts) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.parts[0])
	r.parts[0] = r.parts[0][n:]
	if r.parts[0] == "" {
		r.parts = r.parts[1:]
	}
	return n, nil
}

func readAllFrames(t *testing.T, r io.Reader) []string {
	t.Helper()
	fr := NewFrameReader(r)
	var payloads []string
	for {
		payload, err := fr.Next()
		if errors.Is(err, io.EOF) {
			return payloads
		}
		require.NoError(t, err)
		payloads = append(payloads, payload)
	}
}

func TestFrameReader(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  []string
	}{
		{
			name:  "single read",
			parts: []string{"data: one\n\ndata: two\n\n"},
			want:  []string{"one", "two"},
		},
		{
			name:  "frame split inside prefix",
			parts: []string{"da", "ta: one\n", "\ndat", "a: two\n\n"},
			want:  []string{"one", "two"},
		},
		{
			name:  "frame split inside payload",
			parts: []string{`data: {"a":`, `1}` + "\n\n"},
			want:  []string{`{"a":1}`},
		},
		{
			name:  "comments and other fields discarded",
			parts: []string{": keepalive\nevent: message\nid: 7\n\ndata: x\nretry: 100\n"},
			want:  []string{"x"},
		},
		{
			name:  "crlf line endings",
			parts: []string{"data: one\r\n\r\ndata: two\r\n"},
			want:  []string{"one", "two"},
		},
		{
			name:  "unterminated trailing line flushed at eof",
			parts: []string{"data: one\ndata: tail"},
			want:  []string{"one", "tail"},
		},
		{
			name:  "empty stream",
			parts: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readAllFrames(t, &partsReader{parts: append([]string(nil), tt.parts...)})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFrameReader_OneByteReads(t *testing.T) {
	stream := "data: {\"x\":\"héllo\"}\n\n: ping\n\ndata: [DONE]\n\n"
	got := readAllFrames(t, iotest.OneByteReader(strings.NewReader(stream)))
	assert.Equal(t, []string{`{"x":"héllo"}`, "[DONE]"}, got)
}

func TestFrameReader_InvalidUTF8Replaced(t *testing.T) {
	got := readAllFrames(t, strings.NewReader("data: a\xffb\n"))
	assert.Equal(t, []string{"a�b"}, got)
}

func TestFrameReader_ReadError(t *testing.T) {
	boom := errors.New("connection reset")
	fr := NewFrameReader(io.MultiReader(strings.NewReader("data: one\n"), iotest.ErrReader(boom)))

	payload, err := fr.Next()
	require.NoError(t, err)
	assert.Equal(t, "one", payload)

	_, err = fr.Next()
	assert.ErrorIs(t, err, boom)
}
