package devchat

import "context"

// Store is the conversation state backend.
//
// All operations on a single conversation id appear to execute in isolation:
// everything passed to one Append call becomes visible to readers
// all-or-nothing, so a completed turn (user + assistant pair) appended
// together is never observed half-written. Operations on different ids must
// not block one another.
//
// Unknown ids are empty conversations, not errors: Get returns an empty
// slice, GetSummary returns "", Delete is a no-op.
type Store interface {
	// NewID returns a new universally unique conversation id.
	NewID() string

	// Append adds msgs to the conversation in order, atomically.
	Append(ctx context.Context, id string, msgs ...Message) error

	// Get returns the full history in insertion order.
	Get(ctx context.Context, id string) ([]Message, error)

	// SetSummary replaces the conversation's cached summary.
	SetSummary(ctx context.Context, id, summary string) error

	// GetSummary returns the cached summary, or "" when none exists.
	GetSummary(ctx context.Context, id string) (string, error)

	// Delete removes the history and any cached summary together.
	Delete(ctx context.Context, id string) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
