package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdocs-ai/devchat"
	"github.com/devdocs-ai/devchat/store"
)

func newSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_AppendAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newSQLiteStore(t)
	id := s.NewID()

	require.NoError(t, s.Append(ctx, id, devchat.User("hi"), devchat.Assistant("hello")))

	msgs, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, devchat.RoleUser, msgs[0].Role)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, devchat.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "hello", msgs[1].Content)
	assert.False(t, msgs[0].Timestamp.IsZero())
}

func TestSQLiteStore_SummaryLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newSQLiteStore(t)
	id := s.NewID()

	summary, err := s.GetSummary(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, summary)

	require.NoError(t, s.SetSummary(ctx, id, "first"))
	require.NoError(t, s.SetSummary(ctx, id, "second"))

	summary, err = s.GetSummary(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "second", summary)
}

func TestSQLiteStore_DeleteIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newSQLiteStore(t)
	id := s.NewID()

	require.NoError(t, s.Append(ctx, id, devchat.User("hi"), devchat.Assistant("hello")))
	require.NoError(t, s.SetSummary(ctx, id, "summary"))

	require.NoError(t, s.Delete(ctx, id))
	require.NoError(t, s.Delete(ctx, id))

	msgs, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	summary, err := s.GetSummary(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, summary)
}
