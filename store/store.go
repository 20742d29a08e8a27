// Package store provides conversation state backends implementing
// [devchat.Store]: in-memory, SQLite, PostgreSQL, and Redis.
package store

import (
	"context"
	"fmt"

	"github.com/devdocs-ai/devchat"
)

// Config selects and parameterizes a backend.
type Config struct {
	Backend     string // "memory", "sqlite", "postgres", "redis"
	SQLitePath  string
	DatabaseURL string
	RedisURL    string
}

// Open constructs the configured backend. An empty backend defaults to
// memory.
func Open(ctx context.Context, cfg Config) (devchat.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(ctx, cfg.SQLitePath)
	case "postgres":
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	case "redis":
		return NewRedisStore(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
}
