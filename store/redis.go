package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/devdocs-ai/devchat"
)

// Interface compliance check.
var _ devchat.Store = (*RedisStore)(nil)

// RedisStore persists conversations in Redis. Messages live in a list of
// JSON payloads; a single multi-value RPUSH makes a turn atomic. The summary
// lives under its own key; Delete removes both in one DEL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redisURL.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func messagesKey(id string) string { return fmt.Sprintf("conv:%s:messages", id) }
func summaryKey(id string) string  { return fmt.Sprintf("conv:%s:summary", id) }

// NewID returns a new UUIDv4 conversation id.
func (s *RedisStore) NewID() string {
	return uuid.NewString()
}

// Append adds msgs to the conversation with one RPUSH.
func (s *RedisStore) Append(ctx context.Context, id string, msgs ...devchat.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	values := make([]any, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Timestamp.IsZero() {
			msg.Timestamp = now
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		values = append(values, payload)
	}
	return s.client.RPush(ctx, messagesKey(id), values...).Err()
}

// Get returns the full history in insertion order.
func (s *RedisStore) Get(ctx context.Context, id string) ([]devchat.Message, error) {
	payloads, err := s.client.LRange(ctx, messagesKey(id), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	var msgs []devchat.Message
	for _, payload := range payloads {
		var msg devchat.Message
		if err := json.Unmarshal([]byte(payload), &msg); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// SetSummary replaces the conversation's cached summary.
func (s *RedisStore) SetSummary(ctx context.Context, id, summary string) error {
	return s.client.Set(ctx, summaryKey(id), summary, 0).Err()
}

// GetSummary returns the cached summary, or "" when none exists.
func (s *RedisStore) GetSummary(ctx context.Context, id string) (string, error) {
	summary, err := s.client.Get(ctx, summaryKey(id)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return summary, err
}

// Delete removes the history and summary with one DEL. Idempotent.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, messagesKey(id), summaryKey(id)).Err()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
