package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devdocs-ai/devchat"
)

// Interface compliance check.
var _ devchat.Store = (*MemoryStore)(nil)

// MemoryStore keeps conversation state in process memory.
//
// The outer lock guards only the map; each conversation carries its own lock,
// so operations on different ids do not block one another and a turn
// appended in one call is observed all-or-nothing.
type MemoryStore struct {
	mu    sync.RWMutex
	convs map[string]*conversation
}

type conversation struct {
	mu      sync.RWMutex
	history []devchat.Message
	summary string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{convs: make(map[string]*conversation)}
}

// NewID returns a new UUIDv4 conversation id.
func (s *MemoryStore) NewID() string {
	return uuid.NewString()
}

func (s *MemoryStore) getOrCreate(id string) *conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.convs[id]
	if !ok {
		conv = &conversation{}
		s.convs[id] = conv
	}
	return conv
}

// Append adds msgs to the conversation in order, atomically.
func (s *MemoryStore) Append(_ context.Context, id string, msgs ...devchat.Message) error {
	conv := s.getOrCreate(id)
	conv.mu.Lock()
	defer conv.mu.Unlock()
	now := time.Now().UTC()
	for _, msg := range msgs {
		if msg.Timestamp.IsZero() {
			msg.Timestamp = now
		}
		conv.history = append(conv.history, msg)
	}
	return nil
}

// Get returns a copy of the history in insertion order.
func (s *MemoryStore) Get(_ context.Context, id string) ([]devchat.Message, error) {
	s.mu.RLock()
	conv, ok := s.convs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	conv.mu.RLock()
	defer conv.mu.RUnlock()
	out := make([]devchat.Message, len(conv.history))
	copy(out, conv.history)
	return out, nil
}

// SetSummary replaces the conversation's cached summary.
func (s *MemoryStore) SetSummary(_ context.Context, id, summary string) error {
	conv := s.getOrCreate(id)
	conv.mu.Lock()
	defer conv.mu.Unlock()
	conv.summary = summary
	return nil
}

// GetSummary returns the cached summary, or "" when none exists.
func (s *MemoryStore) GetSummary(_ context.Context, id string) (string, error) {
	s.mu.RLock()
	conv, ok := s.convs[id]
	s.mu.RUnlock()
	if !ok {
		return "", nil
	}
	conv.mu.RLock()
	defer conv.mu.RUnlock()
	return conv.summary, nil
}

// Delete removes the history and summary together. Idempotent.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.convs, id)
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
