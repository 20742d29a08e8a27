package gemini

import (
	"context"
	"fmt"
	"io"
	"iter"

	"google.golang.org/genai"

	"github.com/devdocs-ai/devchat"
)

// stream implements [devchat.Stream] by pulling chunks from the genai SDK's
// streaming iterator.
type stream struct {
	pull   func() (*genai.GenerateContentResponse, error, bool)
	stop   func()
	ctx    context.Context
	done   bool
	closed bool
	err    error
}

// Interface compliance check.
var _ devchat.Stream = (*stream)(nil)

// NewStreamFromIter wraps a genai streaming iterator in a [devchat.Stream].
// Exported for testing with pre-built chunks.
func NewStreamFromIter(ctx context.Context, iterFn iter.Seq2[*genai.GenerateContentResponse, error]) devchat.Stream {
	next, stop := iter.Pull2(iterFn)
	return &stream{
		pull: next,
		stop: stop,
		ctx:  ctx,
	}
}

// Next pulls chunks until the next non-empty text fragment.
// Returns io.EOF when the iterator is exhausted.
func (s *stream) Next() (string, error) {
	switch {
	case s.closed:
		return "", fmt.Errorf("gemini: %w", devchat.ErrStreamClosed)
	case s.err != nil:
		return "", s.err
	case s.done:
		return "", io.EOF
	}

	for {
		resp, err, ok := s.pull()
		if !ok {
			s.done = true
			return "", io.EOF
		}
		if err != nil {
			if s.ctx.Err() != nil {
				err = s.ctx.Err()
			}
			s.err = fmt.Errorf("gemini: %w", err)
			return "", s.err
		}
		if frag := responseText(resp); frag != "" {
			return frag, nil
		}
		// Chunk without text (thoughts, metadata) - keep pulling.
	}
}

// Close stops the underlying iterator.
func (s *stream) Close() error {
	s.closed = true
	s.stop()
	return nil
}
