package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devdocs-ai/devchat"
)

// Interface compliance check.
var _ devchat.Store = (*PostgresStore)(nil)

// PostgresStore persists conversations in PostgreSQL via a pgx pool.
// Each Append runs in its own transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and ensures the schema exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	s := &PostgresStore{pool: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		conversation_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, id);

	CREATE TABLE IF NOT EXISTS summaries (
		conversation_id TEXT PRIMARY KEY,
		summary TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// NewID returns a new UUIDv4 conversation id.
func (s *PostgresStore) NewID() string {
	return uuid.NewString()
}

// Append adds msgs to the conversation in one transaction.
func (s *PostgresStore) Append(ctx context.Context, id string, msgs ...devchat.Message) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	for _, msg := range msgs {
		ts := msg.Timestamp
		if ts.IsZero() {
			ts = now
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO messages (conversation_id, role, content, created_at) VALUES ($1, $2, $3, $4)`,
			id, string(msg.Role), msg.Content, ts,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// Get returns the full history in insertion order.
func (s *PostgresStore) Get(ctx context.Context, id string) ([]devchat.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT role, content, created_at FROM messages WHERE conversation_id = $1 ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []devchat.Message
	for rows.Next() {
		var msg devchat.Message
		var role string
		if err := rows.Scan(&role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, err
		}
		msg.Role = devchat.Role(role)
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// SetSummary replaces the conversation's cached summary.
func (s *PostgresStore) SetSummary(ctx context.Context, id, summary string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO summaries (conversation_id, summary, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (conversation_id) DO UPDATE SET summary = EXCLUDED.summary, updated_at = EXCLUDED.updated_at`,
		id, summary, time.Now().UTC(),
	)
	return err
}

// GetSummary returns the cached summary, or "" when none exists.
func (s *PostgresStore) GetSummary(ctx context.Context, id string) (string, error) {
	var summary string
	err := s.pool.QueryRow(ctx,
		`SELECT summary FROM summaries WHERE conversation_id = $1`, id,
	).Scan(&summary)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return summary, err
}

// Delete removes the history and summary in one transaction. Idempotent.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE conversation_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM summaries WHERE conversation_id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Ping checks the pool connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
