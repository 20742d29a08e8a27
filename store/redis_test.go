package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdocs-ai/devchat"
	"github.com/devdocs-ai/devchat/store"
)

func TestNewRedisStore_InvalidURL(t *testing.T) {
	t.Parallel()
	_, err := store.NewRedisStore(context.Background(), "not-a-redis-url")
	require.Error(t, err)
}

// newRedisStore connects to the server named by TEST_REDIS_URL, skipping the
// test when none is configured.
func newRedisStore(t *testing.T) *store.RedisStore {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	s, err := store.NewRedisStore(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRedisStore_Lifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newRedisStore(t)
	id := s.NewID()
	t.Cleanup(func() { _ = s.Delete(ctx, id) })

	require.NoError(t, s.Append(ctx, id, devchat.User("hi"), devchat.Assistant("hello")))

	msgs, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, devchat.RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[1].Content)
	assert.False(t, msgs[0].Timestamp.IsZero())

	require.NoError(t, s.SetSummary(ctx, id, "first"))
	require.NoError(t, s.SetSummary(ctx, id, "second"))
	summary, err := s.GetSummary(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "second", summary)

	require.NoError(t, s.Delete(ctx, id))
	require.NoError(t, s.Delete(ctx, id))

	msgs, err = s.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	summary, err = s.GetSummary(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, summary)
}
