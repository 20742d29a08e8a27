package openai

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/devdocs-ai/devchat"
)

// stream implements [devchat.Stream] over the Chat Completions SSE format:
// unnamed events carrying "data: {chunk}" payloads, terminated by
// "data: [DONE]".
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	ctx     context.Context
	done    bool
	closed  bool
	err     error
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

// Next reads chunks until the next non-empty text fragment.
// Returns io.EOF when the stream completes normally.
func (s *stream) Next() (string, error) {
	switch {
	case s.closed:
		return "", fmt.Errorf("openai: %w", devchat.ErrStreamClosed)
	case s.err != nil:
		return "", s.err
	case s.done:
		return "", io.EOF
	}

	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" || !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			s.done = true
			return "", io.EOF
		}

		var chunk apiChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			s.err = fmt.Errorf("openai: failed to parse stream chunk: %w", err)
			return "", s.err
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if frag := chunk.Choices[0].Delta.Content; frag != "" {
			return frag, nil
		}
	}

	if err := s.scanner.Err(); err != nil {
		if s.ctx.Err() != nil {
			err = s.ctx.Err()
		}
		s.err = fmt.Errorf("openai: %w", err)
		return "", s.err
	}

	s.err = fmt.Errorf("openai: unexpected end of stream")
	return "", s.err
}

// Close closes the underlying HTTP response body.
func (s *stream) Close() error {
	s.closed = true
	return s.body.Close()
}
