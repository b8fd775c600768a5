// AngelaMos | 2026
// sql.go

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schema = `
	CREATE TABLE IF NOT EXISTS kv_entries (
		visitor_id TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (visitor_id, key)
	)`

// SQL stores entries in a kv_entries table. It works against both the
// postgres (pgx) and sqlite (modernc) drivers; queries are written with "?"
// placeholders and rebound for the driver.
type SQL struct {
	db *sqlx.DB
}

func NewSQL(ctx context.Context, db *sqlx.DB) (*SQL, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create kv_entries: %w", err)
	}
	return &SQL{db: db}, nil
}

func (s *SQL) Get(ctx context.Context, ns, key string) (string, bool, error) {
	query := s.db.Rebind(`
		SELECT value FROM kv_entries
		WHERE visitor_id = ? AND key = ?`)

	var value string
	err := s.db.GetContext(ctx, &value, query, ns, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}

	return value, true, nil
}

func (s *SQL) Set(ctx context.Context, ns, key, value string) error {
	query := s.db.Rebind(`
		INSERT INTO kv_entries (visitor_id, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (visitor_id, key)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)

	if _, err := s.db.ExecContext(ctx, query, ns, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	return nil
}

func (s *SQL) Delete(ctx context.Context, ns string, keys ...string) error {
	query, args, err := sqlx.In(`
		DELETE FROM kv_entries
		WHERE visitor_id = ? AND key IN (?)`, ns, keys)
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("delete keys: %w", err)
	}

	return nil
}

func (s *SQL) Keys(ctx context.Context, ns string) ([]string, error) {
	query := s.db.Rebind(`
		SELECT key FROM kv_entries
		WHERE visitor_id = ?
		ORDER BY key`)

	var keys []string
	if err := s.db.SelectContext(ctx, &keys, query, ns); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}

	return keys, nil
}

func (s *SQL) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close is a no-op; the handle belongs to core.Database.
func (s *SQL) Close() error {
	return nil
}
