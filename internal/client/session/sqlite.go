package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

// KV persists a session across client restarts.
type KV interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// SQLiteKV keeps the token and user entries in a local sqlite file.
type SQLiteKV struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if needed) the session database at dsn.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteKV, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS kv (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to init session db: %w", err)
	}
	return &SQLiteKV{db: db}, nil
}

func (r *SQLiteKV) Close() error { return r.db.Close() }

func (r *SQLiteKV) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, nil
}

// Load returns nil when either entry is missing or unreadable.
func (r *SQLiteKV) Load(ctx context.Context) (*Session, error) {
	token, err := r.get(ctx, keyToken)
	if err != nil {
		return nil, err
	}
	user, err := r.get(ctx, keyUser)
	if err != nil {
		return nil, err
	}
	if len(token) == 0 || len(user) == 0 {
		return nil, nil
	}
	s := &Session{Token: string(token)}
	if err := json.Unmarshal(user, &s.User); err != nil {
		return nil, nil
	}
	return s, nil
}

// Save writes both entries in one transaction.
func (r *SQLiteKV) Save(ctx context.Context, s Session) error {
	user, err := json.Marshal(s.User)
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const upsert = `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.ExecContext(ctx, upsert, keyToken, []byte(s.Token)); err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", keyToken, err)
	}
	if _, err := tx.ExecContext(ctx, upsert, keyUser, user); err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", keyUser, err)
	}
	return tx.Commit()
}

// Clear removes both entries in one statement.
func (r *SQLiteKV) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key IN (?, ?)`, keyToken, keyUser); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
