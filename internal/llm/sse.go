package llm

import (
	"bytes"
	"io"
	"strings"
)

const (
	dataPrefix   = "data: "
	readBufSize  = 4096
	invalidUTF8  = "�"
	streamDoneID = "[DONE]"
)

// frameBuffer accumulates raw bytes across network reads and yields the
// payload of every complete "data: " line. Bytes after the last line
// terminator stay buffered until more data arrives.
type frameBuffer struct {
	buf []byte
}

// push appends p and returns the payloads of all lines it completed.
func (b *frameBuffer) push(p []byte) []string {
	b.buf = append(b.buf, p...)

	var payloads []string
	start := 0
	for {
		i := bytes.IndexByte(b.buf[start:], '\n')
		if i < 0 {
			break
		}
		if payload, ok := linePayload(b.buf[start : start+i]); ok {
			payloads = append(payloads, payload)
		}
		start += i + 1
	}

	n := copy(b.buf, b.buf[start:])
	b.buf = b.buf[:n]
	return payloads
}

// flush returns the payload of an unterminated trailing line, if any.
func (b *frameBuffer) flush() (string, bool) {
	line := b.buf
	b.buf = nil
	return linePayload(line)
}

// linePayload decodes a line permissively and extracts its data payload.
// Empty lines, comments and other SSE fields are reported as not ok.
func linePayload(line []byte) (string, bool) {
	text := strings.TrimSpace(strings.ToValidUTF8(string(line), invalidUTF8))
	return strings.CutPrefix(text, dataPrefix)
}

// FrameReader turns a byte stream into SSE data payloads.
// It is not safe for concurrent use.
type FrameReader struct {
	r       io.Reader
	frames  frameBuffer
	readBuf []byte
	pending []string
	err     error
}

// NewFrameReader creates a FrameReader reading from r.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{
		r:       r,
		readBuf: make([]byte, readBufSize),
	}
}

// Next returns the next data payload. It returns io.EOF once the underlying
// reader is exhausted and every buffered payload has been returned; any other
// read error is returned as is.
func (f *FrameReader) Next() (string, error) {
	for len(f.pending) == 0 {
		if f.err != nil {
			return "", f.err
		}
		n, err := f.r.Read(f.readBuf)
		if n > 0 {
			f.pending = append(f.pending, f.frames.push(f.readBuf[:n])...)
		}
		if err != nil {
			if err == io.EOF {
				if payload, ok := f.frames.flush(); ok {
					f.pending = append(f.pending, payload)
				}
			}
			f.err = err
		}
	}

	payload := f.pending[0]
	f.pending = f.pending[1:]
	return payload, nil
}
