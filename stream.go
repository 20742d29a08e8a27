package devchat

import "io"

// Stream uses a pull-based iterator pattern over incremental text fragments.
//
// Next returns the next non-empty fragment in provider emission order. It
// returns io.EOF on normal completion and any other error on mid-stream
// failure; either is terminal. A Stream is finite, single-pass, and not
// restartable. Close releases the underlying connection and is safe to call
// at any point, including before exhaustion.
type Stream interface {
	Next() (string, error)
	Close() error
}

// Drain consumes s to completion and returns the concatenated text.
// A mid-stream error returns the fragments received so far alongside it.
func Drain(s Stream) (string, error) {
	var text string
	for {
		frag, err := s.Next()
		if err == io.EOF {
			return text, nil
		}
		if err != nil {
			return text, err
		}
		text += frag
	}
}
