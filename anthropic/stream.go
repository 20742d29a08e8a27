package anthropic

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/devdocs-ai/devchat"
)

// stream implements [devchat.Stream] by parsing SSE events from an HTTP
// response body. Only text deltas are surfaced as fragments; other event
// types are consumed silently.
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	ctx     context.Context
	done    bool
	closed  bool
	err     error // terminal error, if any
}

// Interface compliance check.
var _ devchat.Stream = (*stream)(nil)

func newStream(ctx context.Context, body io.ReadCloser) *stream {
	return &stream{
		body:    body,
		scanner: bufio.NewScanner(body),
		ctx:     ctx,
	}
}

// Next reads SSE events until the next text fragment.
// Returns io.EOF when the stream completes normally.
func (s *stream) Next() (string, error) {
	switch {
	case s.closed:
		return "", fmt.Errorf("anthropic: %w", devchat.ErrStreamClosed)
	case s.err != nil:
		return "", s.err
	case s.done:
		return "", io.EOF
	}

	for {
		eventType, data, err := s.readSSEEvent()
		if err == io.EOF {
			// message_stop sets done before the body drains; a raw EOF here
			// means the stream ended without a proper terminator.
			s.err = fmt.Errorf("anthropic: unexpected end of stream")
			return "", s.err
		}
		if err != nil {
			if s.ctx.Err() != nil {
				err = s.ctx.Err()
			}
			s.err = err
			return "", s.err
		}

		frag, terminal, err := s.processEvent(eventType, data)
		if err != nil {
			s.err = err
			return "", s.err
		}
		if terminal {
			s.done = true
			return "", io.EOF
		}
		if frag != "" {
			return frag, nil
		}
		// Non-text event (ping, message_start, etc.) - keep reading.
	}
}

// Close closes the underlying HTTP response body.
func (s *stream) Close() error {
	s.closed = true
	return s.body.Close()
}

// readSSEEvent reads lines until a complete SSE event is assembled.
// Returns the event type and the data payload.
func (s *stream) readSSEEvent() (string, string, error) {
	var eventType string
	var dataBuf strings.Builder

	for s.scanner.Scan() {
		line := s.scanner.Text()

		if line == "" {
			// Empty line signals end of event.
			if dataBuf.Len() > 0 {
				return eventType, dataBuf.String(), nil
			}
			continue
		}

		if strings.HasPrefix(line, "event: ") {
			eventType = strings.TrimPrefix(line, "event: ")
		} else if strings.HasPrefix(line, "data: ") {
			if dataBuf.Len() > 0 {
				dataBuf.WriteByte('\n')
			}
			dataBuf.WriteString(strings.TrimPrefix(line, "data: "))
		}
		// Ignore comments (lines starting with ':') and unknown fields.
	}

	if err := s.scanner.Err(); err != nil {
		return "", "", fmt.Errorf("anthropic: %w", err)
	}

	// Scanner exhausted without error = EOF.
	if dataBuf.Len() > 0 {
		return eventType, dataBuf.String(), nil
	}
	return "", "", io.EOF
}

// processEvent maps an SSE event to a text fragment. terminal is true for
// message_stop. Non-text events yield an empty fragment.
func (s *stream) processEvent(eventType, data string) (frag string, terminal bool, err error) {
	switch eventType {
	case "content_block_delta":
		var evt sseContentBlockDelta
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return "", false, fmt.Errorf("anthropic: failed to parse content_block_delta: %w", err)
		}
		if evt.Delta.Type == "text_delta" {
			return evt.Delta.Text, false, nil
		}
		return "", false, nil
	case "message_stop":
		return "", true, nil
	case "error":
		var evt sseError
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return "", false, fmt.Errorf("anthropic: failed to parse error event: %w", err)
		}
		return "", false, fmt.Errorf("anthropic: %s: %s", evt.Error.Type, evt.Error.Message)
	default:
		// message_start, content_block_start/stop, message_delta, ping.
		return "", false, nil
	}
}
