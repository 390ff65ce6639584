package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"aibox/internal/contextutil"
)

// frameEvent is the provider-neutral meaning of one SSE payload.
type frameEvent struct {
	delta    string
	hasDelta bool
	done     bool
}

// frameDecoder interprets a single payload. An error marks the frame as
// malformed; the stream skips it and keeps reading.
type frameDecoder func(payload string) (frameEvent, error)

// consumeStream drives the read loop shared by all streaming drivers.
// Every delta is delivered to onChunk before the next read. A terminal chunk
// is always emitted on normal completion, including when the connection
// closes before the provider sent its own completion signal.
func consumeStream(ctx context.Context, body io.Reader, decode frameDecoder, onChunk ChunkFunc) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)
	reader := NewFrameReader(body)

	var full strings.Builder
	deltas := 0
	for {
		payload, err := reader.Next()
		if errors.Is(err, io.EOF) {
			logger.DebugContext(ctx, "stream closed without completion event", "deltas", deltas)
			break
		}
		if err != nil {
			return full.String(), &TransportError{Op: "read stream", Err: err}
		}

		ev, err := decode(payload)
		if err != nil {
			logger.DebugContext(ctx, "skipping malformed stream frame", "error", err)
			continue
		}

		if ev.hasDelta {
			full.WriteString(ev.delta)
			deltas++
			if err := onChunk(StreamChunk{Delta: ev.delta}); err != nil {
				return full.String(), fmt.Errorf("callback error: %w", err)
			}
		}
		if ev.done {
			logger.DebugContext(ctx, "stream completed", "deltas", deltas, "length", full.Len())
			break
		}
	}

	if err := onChunk(StreamChunk{Done: true}); err != nil {
		return full.String(), fmt.Errorf("callback error: %w", err)
	}
	return full.String(), nil
}

// StreamEvent is one element of a channel-based stream: either a chunk or
// the error that ended the stream.
type StreamEvent struct {
	Chunk StreamChunk
	Err   error
}

// StreamChan runs ChatStream in a goroutine and delivers its chunks on the
// returned channel. The channel is closed after the terminal chunk or after a
// single error event. Cancelling ctx stops delivery.
func (c *Client) StreamChan(ctx context.Context, cfg ProviderConfig, req ChatRequest) <-chan StreamEvent {
	events := make(chan StreamEvent)
	go func() {
		defer close(events)
		_, err := c.ChatStream(ctx, cfg, req, func(chunk StreamChunk) error {
			select {
			case events <- StreamEvent{Chunk: chunk}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			select {
			case events <- StreamEvent{Err: err}:
			case <-ctx.Done():
			}
		}
	}()
	return events
}
