package devchat

import "context"

// Provider is a strategy pattern interface for LLM providers.
//
// Complete performs a single blocking completion. Stream opens an incremental
// response; initial connection errors are returned directly, mid-stream
// failures come from Stream.Next. Cancellation flows through ctx in both
// cases.
type Provider interface {
	Complete(ctx context.Context, req Request) (Completion, error)
	Stream(ctx context.Context, req Request) (Stream, error)
}

// Completion is the result of a non-streaming provider call.
// Usage is nil when the provider does not report token counts.
type Completion struct {
	Content string
	Usage   *Usage
}
