// Package mock provides test doubles for devchat interfaces using function
// fields.
package mock

import (
	"context"
	"io"

	"github.com/devdocs-ai/devchat"
)

// Interface compliance checks.
var (
	_ devchat.Provider = (*Provider)(nil)
	_ devchat.Stream   = (*Stream)(nil)
)

// Provider is a test double for devchat.Provider.
// Set the function fields for the methods you need; unset methods panic to
// catch missing setup.
type Provider struct {
	CompleteFn func(ctx context.Context, req devchat.Request) (devchat.Completion, error)
	StreamFn   func(ctx context.Context, req devchat.Request) (devchat.Stream, error)
}

// Complete delegates to CompleteFn.
func (p *Provider) Complete(ctx context.Context, req devchat.Request) (devchat.Completion, error) {
	return p.CompleteFn(ctx, req)
}

// Stream delegates to StreamFn.
func (p *Provider) Stream(ctx context.Context, req devchat.Request) (devchat.Stream, error) {
	return p.StreamFn(ctx, req)
}

// Stream is a test double for devchat.Stream.
// NextFn panics when nil to catch missing setup. CloseFn is nil-safe because
// test code commonly calls defer stream.Close().
type Stream struct {
	NextFn  func() (string, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (string, error) {
	return s.NextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Fragments returns a Stream that yields the given fragments in order and
// then terminates with err (io.EOF when err is nil).
func Fragments(frags []string, err error) *Stream {
	if err == nil {
		err = io.EOF
	}
	pos := 0
	return &Stream{
		NextFn: func() (string, error) {
			if pos >= len(frags) {
				return "", err
			}
			f := frags[pos]
			pos++
			return f, nil
		},
	}
}
