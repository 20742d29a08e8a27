package mock

import (
	"context"

	"github.com/devdocs-ai/devchat"
)

// Interface compliance check.
var _ devchat.Store = (*Store)(nil)

// Store is a test double for devchat.Store.
// Set the function fields for the methods you need; unset methods panic to
// catch missing setup, except Ping and Close which are nil-safe no-ops.
type Store struct {
	NewIDFn      func() string
	AppendFn     func(ctx context.Context, id string, msgs ...devchat.Message) error
	GetFn        func(ctx context.Context, id string) ([]devchat.Message, error)
	SetSummaryFn func(ctx context.Context, id, summary string) error
	GetSummaryFn func(ctx context.Context, id string) (string, error)
	DeleteFn     func(ctx context.Context, id string) error
	PingFn       func(ctx context.Context) error
	CloseFn      func() error
}

// NewID delegates to NewIDFn.
func (s *Store) NewID() string { return s.NewIDFn() }

// Append delegates to AppendFn.
func (s *Store) Append(ctx context.Context, id string, msgs ...devchat.Message) error {
	return s.AppendFn(ctx, id, msgs...)
}

// Get delegates to GetFn.
func (s *Store) Get(ctx context.Context, id string) ([]devchat.Message, error) {
	return s.GetFn(ctx, id)
}

// SetSummary delegates to SetSummaryFn.
func (s *Store) SetSummary(ctx context.Context, id, summary string) error {
	return s.SetSummaryFn(ctx, id, summary)
}

// GetSummary delegates to GetSummaryFn.
func (s *Store) GetSummary(ctx context.Context, id string) (string, error) {
	return s.GetSummaryFn(ctx, id)
}

// Delete delegates to DeleteFn.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.DeleteFn(ctx, id)
}

// Ping delegates to PingFn. Returns nil when PingFn is not set.
func (s *Store) Ping(ctx context.Context) error {
	if s.PingFn == nil {
		return nil
	}
	return s.PingFn(ctx)
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Store) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}
